package protoreg

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jhump/protoreflect/v2/protoprint"
)

// Render writes every file of r below outDir and returns the written paths.
func Render(r *Registry, outDir string) ([]string, error) {
	var written []string
	for _, fd := range r.Files() {
		fp := filepath.Join(outDir, filepath.FromSlash(fd.Path()))
		if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
			return written, err
		}
		if err := renderFile(r, fd.Path(), fp); err != nil {
			return written, err
		}
		written = append(written, fp)
	}
	return written, nil
}

func renderFile(r *Registry, path, dst string) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Print(r, path, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Print writes the .proto source of the file at path to w. An empty path
// prints every file, each preceded by a "// file: <path>" line.
func Print(r *Registry, path string, w io.Writer) error {
	pp := protoprint.Printer{}
	for _, fd := range r.Files() {
		if path != "" && fd.Path() != path {
			continue
		}
		if path == "" {
			if _, err := io.WriteString(w, "// file: "+fd.Path()+"\n"); err != nil {
				return err
			}
		}
		if err := pp.PrintProtoFile(fd, w); err != nil {
			return err
		}
	}
	return nil
}
