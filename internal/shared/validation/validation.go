// Package validation configures the request validator shared by all handlers.
package validation

import (
	"net/url"
	"strings"
	"sync"

	"replyforge/internal/domain/tone"
	apperrors "replyforge/internal/shared/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Setup registers JSON field names and custom tags on gin's validator. Safe to call repeatedly.
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

func Register(v *validator.Validate) {
	apperrors.UseJSONFieldNames(v)
	_ = v.RegisterValidation("urlorempty", urlOrEmpty)
	_ = v.RegisterValidation("toneorempty", toneOrEmpty)
}

// urlOrEmpty accepts "" or an absolute http(s) URL.
func urlOrEmpty(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func toneOrEmpty(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || tone.Tone(s).Valid()
}
