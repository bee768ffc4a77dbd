package validator

import (
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

// Struct valida un struct con sus tags `validate`. El validador subyacente
// es un singleton seguro para uso concurrente.
func Struct(s interface{}) error {
	once.Do(func() {
		v = gpvalidator.New()
	})
	return v.Struct(s)
}
