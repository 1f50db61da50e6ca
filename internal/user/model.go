package user

type User struct {
	ID    string
	Name  string
	Email string
}

// DisplayName is the name used on shipping labels when the caller gives none.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
