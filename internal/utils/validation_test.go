package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string  `json:"email" binding:"required,email"`
	Role     string  `json:"role" binding:"omitempty,oneof=doctor nurse"`
	Password string  `json:"password" binding:"required,min=8"`
	Nickname *string `json:"nickname"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(&signupForm{Email: "bad", Role: "pilot", Password: "short"})
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "role must be one of [doctor nurse]")
	assert.Contains(t, msg, "password must be at least 8 characters")
}

func TestValidate_Passes(t *testing.T) {
	assert.NoError(t, Validate(&signupForm{Email: "a@b.test", Password: "longenough"}))
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, assert.AnError.Error(), FormatValidationError(assert.AnError))
	assert.False(t, IsValidationError(assert.AnError))
}

func TestBindAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InstallBindingValidator()

	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantDetail string
	}{
		{"valid", `{"email":"a@b.test","password":"longenough"}`, true, http.StatusOK, ""},
		{"missing field", `{"email":"a@b.test"}`, false, http.StatusUnprocessableEntity, "password is required"},
		{"malformed json", `{"email":`, false, http.StatusUnprocessableEntity, "Invalid request payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var form signupForm
			ok := BindAndValidate(c, &form)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, tt.wantStatus, w.Code)
				assert.Contains(t, w.Body.String(), tt.wantDetail)
			}
		})
	}
}

type trimmedForm struct {
	Email string `json:"email" binding:"required,email"`
}

func (f *trimmedForm) Normalize() {
	f.Email = strings.TrimSpace(f.Email)
}

func TestBindAndValidate_NormalizesBeforeValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InstallBindingValidator()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"  doc@clinic.test "}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var form trimmedForm
	require.True(t, BindAndValidate(c, &form), w.Body.String())
	assert.Equal(t, "doc@clinic.test", form.Email)
}
