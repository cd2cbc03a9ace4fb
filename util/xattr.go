package util

import (
	"errors"
	"syscall"

	"github.com/pkg/xattr"
)

// SetFileAttrs sets extended attributes on the given file, stopping at the first failure
func SetFileAttrs(path string, attrs map[string]string) error {
	for name, value := range attrs {
		if err := xattr.Set(path, name, []byte(value)); err != nil {
			return err
		}
	}
	return nil
}

// GetFileAttr gets a single extended attribute from the given file
func GetFileAttr(path string, name string) (string, error) {
	value, err := xattr.Get(path, name)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// IsXattrUnsupported checks whether the error comes from a filesystem or platform without user xattrs
func IsXattrUnsupported(err error) bool {
	var xerr *xattr.Error
	if !errors.As(err, &xerr) {
		return false
	}
	return errors.Is(xerr.Err, syscall.ENOTSUP) || errors.Is(xerr.Err, syscall.EOPNOTSUPP) || errors.Is(xerr.Err, syscall.EPERM)
}
