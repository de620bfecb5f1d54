package constants

import "strings"

const (
	// MaxUploadBytes caps multipart uploads. Scanned claim forms run 1-5MB;
	// anything past this is almost certainly not a claim document.
	MaxUploadBytes = 32 << 20

	// SnapshotExt is the extension for the per-upload JSON snapshot.
	SnapshotExt = ".json"
)

// NormalizeExt lowercases an extension and strips the leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsPDFExt reports whether the normalized extension is a PDF. Uploads are
// PDF-only; there is no OCR fallback for images.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
