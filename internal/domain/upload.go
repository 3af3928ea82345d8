package domain

import "time"

// Upload é o conteúdo recebido do componente de upload: nome do arquivo e
// o documento codificado para transporte (data URL ou base64)
type Upload struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

type IngestResult struct {
	UploadID  string   `json:"upload_id"`
	Dataset   string   `json:"dataset"`
	Filename  string   `json:"filename"`
	Rows      int      `json:"rows"`
	TotalRows int      `json:"total_rows"`
	Columns   []string `json:"columns"`
}

// UploadEntry representa um upload registrado no histórico
type UploadEntry struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Filename  string    `json:"filename"`
	RowCount  int       `json:"row_count"`
	TotalRows int       `json:"total_rows"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}
