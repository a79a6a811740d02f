package models

type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
