package domain

import "fmt"

type Airport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Label is the selector text, e.g. "Indira Gandhi International (DEL)".
func (a Airport) Label() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Code)
}

type PicklistOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
