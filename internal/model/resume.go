package model

import "time"

// Resume is an uploaded resume reference
type Resume struct {
	ID         string      `json:"id"`
	FileName   string      `json:"fileName"`
	FileURL    string      `json:"fileUrl"`
	FileSize   int64       `json:"fileSize,omitempty"`
	FileType   string      `json:"fileType,omitempty"` // pdf, doc, docx
	IsDefault  bool        `json:"isDefault"`
	UploadedAt time.Time   `json:"uploadedAt"`
	ParsedData *ParsedData `json:"parsedData,omitempty"`
}

// ParsedData is what the backend extracted from a resume
type ParsedData struct {
	Skills         []string `json:"skills,omitempty"`
	Experience     int      `json:"experience,omitempty"`
	Education      []string `json:"education,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// ResumeInput is the payload for registering or updating a resume
type ResumeInput struct {
	FileName  string `json:"fileName"`
	FileURL   string `json:"fileUrl"`
	FileSize  int64  `json:"fileSize,omitempty"`
	FileType  string `json:"fileType,omitempty"`
	IsDefault bool   `json:"isDefault"`
}
