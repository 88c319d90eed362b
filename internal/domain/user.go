package domain

// User is the person operating the tool. There is no real authentication;
// Admin only gates bulk operations like import, export and clear.
type User struct {
	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}
