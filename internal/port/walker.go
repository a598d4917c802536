package port

// FileWalker lists candidate documents under a root path.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// FileReader loads a document's text.
type FileReader interface {
	ReadFile(path string) (string, error)
}
