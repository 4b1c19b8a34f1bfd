package model

// AdminUser is an entry of the admin dashboard's credential table.  Admins do
// not live in the `users` table; the table is loaded from configuration at
// startup.
type AdminUser struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string // "SUPER_ADMIN" or "MODERATOR"
}
