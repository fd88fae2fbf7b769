package domain

// Question is one room's AI request with the editor context attached.
type Question struct {
	Prompt       string
	SelectedCode string
	FilePath     string
	Language     string
}
