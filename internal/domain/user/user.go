package user

import (
	"errors"
	"strings"
)

// RoleCode gates routes: USER for the storefront, ADMIN for the back office.
type RoleCode string

const (
	RoleCodeUser  RoleCode = "USER"
	RoleCodeAdmin RoleCode = "ADMIN"
)

func (c RoleCode) IsValid() bool {
	switch c {
	case RoleCodeUser, RoleCodeAdmin:
		return true
	default:
		return false
	}
}

var ErrInvalidRoleCode = errors.New("invalid role code")

func ParseRoleCode(s string) (RoleCode, error) {
	c := RoleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidRoleCode
	}
	return c, nil
}

type User struct {
	ID       int64
	Name     string
	Email    string
	Phone    string
	RoleCode RoleCode
}
