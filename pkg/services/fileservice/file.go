package fileservice

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"go.uber.org/zap"
)

// Create stores an object without content under the given path replacing
// existing object if any.
func (s *Service) Create(path string) (*object.Object, error) {
	p, err := object.NormalizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", segstore.ErrInvalidPath, err)
	}

	err = s.st.Save(p, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", p, err)
	}

	s.log.Debug("file created", zap.String("path", p))

	return object.New(p, nil), nil
}

// Write replaces content of the object creating it if needed.
func (s *Service) Write(path string, content []byte) error {
	err := s.st.Save(path, content)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read returns object stored under the given path.
func (s *Service) Read(path string) (*object.Object, error) {
	obj, err := s.st.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return obj, nil
}

// Append adds content to the end of existing object.
func (s *Service) Append(path string, content []byte) error {
	obj, err := s.st.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	res := slices.Concat(obj.Content(), content)
	if res == nil && (obj.HasContent() || content != nil) {
		res = []byte{}
	}

	err = s.st.Save(path, res)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// Delete removes the object.
func (s *Service) Delete(path string) error {
	err := s.st.Delete(path)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Move places the object under the new path. Object is stored under the new
// path before it is removed from the old one, so a failed Move never loses
// it. Existing object under the new path is replaced.
func (s *Service) Move(oldPath, newPath string) error {
	from, err := object.NormalizePath(oldPath)
	if err != nil {
		return fmt.Errorf("%w: %w", segstore.ErrInvalidPath, err)
	}

	to, err := object.NormalizePath(newPath)
	if err != nil {
		return fmt.Errorf("%w: %w", segstore.ErrInvalidPath, err)
	}

	obj, err := s.st.Read(from)
	if err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}

	if from == to {
		return nil
	}

	err = s.st.Save(to, obj.Content())
	if err != nil {
		return fmt.Errorf("write %s: %w", to, err)
	}

	err = s.st.Delete(from)
	if err != nil && !errors.Is(err, segstore.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", from, err)
	}

	s.log.Debug("file moved", zap.String("from", from), zap.String("to", to))

	return nil
}

// Rename is the same as Move.
func (s *Service) Rename(oldPath, newPath string) error {
	return s.Move(oldPath, newPath)
}

// Metrics returns storage state.
func (s *Service) Metrics() segstore.Metrics {
	return s.st.Metrics()
}

// Compact defragments the storage.
func (s *Service) Compact() (segstore.CompactRes, error) {
	res, err := s.st.Compact()
	if err != nil {
		return res, fmt.Errorf("compact: %w", err)
	}
	return res, nil
}
