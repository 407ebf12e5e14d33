package models

// Category groups tasks. Deleting a category never deletes its tasks;
// they fall back to uncategorized on the server side.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
