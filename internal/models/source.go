package models

// FileKind classifies an accepted SourceFile.
type FileKind string

const (
	KindUnknown FileKind = ""
	KindAudio   FileKind = "audio"
	KindText    FileKind = "text"
	KindPDF     FileKind = "pdf"
	KindWord    FileKind = "word"
)

// IsDocument reports whether files of this kind bypass transcription.
func (k FileKind) IsDocument() bool {
	return k == KindText || k == KindPDF || k == KindWord
}

// SourceFile is a user-selected file before it enters the pipeline.
type SourceFile struct {
	Name         string
	Size         int64
	DeclaredType string
	SniffedType  string
	Data         []byte
}
