package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrquarshie/huddle/pkg/apperrors"
)

type testStruct struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=0,lte=150"`
}

func violationsByField(t *testing.T, err error) map[string]string {
	t.Helper()
	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := make(map[string]string, len(valErr.Violations))
	for _, v := range valErr.Violations {
		fields[v.Field] = v.Message
	}
	return fields
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Name: "Ama", Email: "ama@st.ug.edu.gh", Age: 22}
	assert.NoError(t, Validate(s))
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Email: "ama@st.ug.edu.gh", Age: 22}
	err := Validate(s)
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Equal(t, "is required", fields["name"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := testStruct{Name: "Ama", Email: "not-an-email", Age: 22}
	err := Validate(s)
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Equal(t, "must be a valid email address", fields["email"])
}

func TestValidate_OutOfRange(t *testing.T) {
	s := testStruct{Name: "Ama", Email: "ama@st.ug.edu.gh", Age: 200}
	err := Validate(s)
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Contains(t, fields["age"], "150")
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(testStruct{}) // missing name and email
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
}

// Violations are reported under the json tag name so error payloads match
// what the client actually sent.
func TestValidate_UsesJSONTagNames(t *testing.T) {
	type tagged struct {
		ProfileImage string `json:"profileImage" validate:"required"`
	}
	err := Validate(tagged{})
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Contains(t, fields, "profileImage")
	assert.NotContains(t, fields, "ProfileImage")
}

type minMaxStruct struct {
	Short string `json:"short" validate:"min=3"`
	Long  string `json:"long" validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	s := minMaxStruct{Short: "ab", Long: "toolongstring"}
	err := Validate(s)
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Contains(t, fields["short"], "at least 3")
	assert.Contains(t, fields["long"], "at most 5")
}

type oneofStruct struct {
	Category string `json:"category" validate:"oneof=books electronics"`
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(oneofStruct{Category: "vehicles"})
	require.Error(t, err)

	fields := violationsByField(t, err)
	assert.Contains(t, fields["category"], "one of")
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"Ama","email":"ama@st.ug.edu.gh","age":22}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.NoError(t, err)
	assert.Equal(t, "Ama", s.Name)
	assert.Equal(t, "ama@st.ug.edu.gh", s.Email)
	assert.Equal(t, 22, s.Age)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"name":"","email":"bad","age":22}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s testStruct
	err := DecodeAndValidate(req, &s)

	require.Error(t, err)
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
