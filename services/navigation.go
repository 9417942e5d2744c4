package services

import "yourrest-api/models"

// Section is one navigation entry of the client shell.
type Section struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Href string `json:"href"`
}

const DefaultSection = "home"

var userSections = []Section{
	{Key: "home", Name: "Home", Href: "/"},
	{Key: "menu", Name: "Menu", Href: "/menu"},
	{Key: "contact", Name: "Contact", Href: "/contact"},
	{Key: "about", Name: "About us", Href: "/about"},
	{Key: "orders", Name: "Orders", Href: "/orders"},
	{Key: "profile", Name: "Profile", Href: "/profile"},
}

var adminSection = Section{Key: "admin", Name: "Admin", Href: "/admin"}

// Sections lists the navigation entries available to role.
func Sections(role models.UserRole) []Section {
	out := make([]Section, len(userSections), len(userSections)+1)
	copy(out, userSections)
	if role == models.RoleAdmin {
		out = append(out, adminSection)
	}
	return out
}

// ResolveSection returns key when role may see it, and DefaultSection otherwise.
func ResolveSection(role models.UserRole, key string) string {
	for _, s := range Sections(role) {
		if s.Key == key {
			return key
		}
	}
	return DefaultSection
}
