// Package repository holds the MySQL persistence for accounts.  Sentinel
// errors let handlers distinguish failure scenarios with errors.Is; every
// other error is a driver or connection failure and becomes a 500.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert collides with an existing email.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when another account already owns an organizer
// slug.  Handlers translate this into an HTTP 409 response.
var ErrSlugExists = errors.New("organizer slug already exists")

// duplicateKey maps MySQL error 1062 to the sentinel for the offending
// unique index.
func duplicateKey(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != 1062 {
		return err
	}
	if strings.Contains(strings.ToLower(me.Message), "slug") {
		return ErrSlugExists
	}
	return ErrEmailExists
}
