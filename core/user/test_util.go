package user

import (
	"github.com/academia-hq/academia/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose side effects (mail) run synchronously,
// for use in tests.
func NewServiceMock(repo Repository, mailSvc core.EmailService) Service {
	return &serviceMock{
		service: service{
			repo:    repo,
			mailSvc: mailSvc,
		},
	}
}
