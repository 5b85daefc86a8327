package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"guildcloner/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	if cv.conf.Status.Enabled && cv.conf.Status.Port == 0 {
		return fmt.Errorf("invalid configuration: status.port is required when the status server is enabled")
	}
	return nil
}
