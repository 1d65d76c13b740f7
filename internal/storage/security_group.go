package storage

// SecurityGroup scopes what a team member may filter on and change.
type SecurityGroup struct {
	Sites       []string `json:"sites"`
	Categories  []string `json:"categories"`
	Departments []string `json:"departments"`
	CanCreate   bool     `json:"can_create"`
	CanUpdate   bool     `json:"can_update"`
	CanDisable  bool     `json:"can_disable"`
}

// Restriction returns the restricted value list for a filter dimension.
func (g SecurityGroup) Restriction(key string) []string {
	switch key {
	case "sites":
		return g.Sites
	case "categories":
		return g.Categories
	case "departments":
		return g.Departments
	}
	return nil
}
