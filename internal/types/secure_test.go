package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

const testSecret = "weatherapi-key-12345"

func TestSecretString_String(t *testing.T) {
	s := SecretString(testSecret)

	result := s.String()

	if result != redactedPlaceholder {
		t.Errorf("String() = %q, want %q", result, redactedPlaceholder)
	}
	if strings.Contains(result, testSecret) {
		t.Errorf("String() leaked the raw secret value")
	}
}

func TestSecretString_Sprintf(t *testing.T) {
	s := SecretString(testSecret)

	// %s and %v both route through the fmt.Stringer interface.
	for _, verb := range []string{"%s", "%v"} {
		result := fmt.Sprintf("key="+verb, s)
		if strings.Contains(result, testSecret) {
			t.Errorf("fmt.Sprintf(%s) leaked the raw secret: %s", verb, result)
		}
		if result != "key="+redactedPlaceholder {
			t.Errorf("fmt.Sprintf(%s) = %q", verb, result)
		}
	}
}

func TestSecretString_MarshalJSON(t *testing.T) {
	payload := struct {
		Key SecretString `json:"key"`
	}{Key: SecretString(testSecret)}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if strings.Contains(string(data), testSecret) {
		t.Errorf("MarshalJSON leaked the raw secret: %s", data)
	}
	if string(data) != `{"key":"***REDACTED***"}` {
		t.Errorf("marshaled = %s", data)
	}
}

func TestSecretString_Unmask(t *testing.T) {
	s := SecretString(testSecret)
	if s.Unmask() != testSecret {
		t.Errorf("Unmask() = %q, want the raw value", s.Unmask())
	}
}
