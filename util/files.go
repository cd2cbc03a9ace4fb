package util

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// ListFiles lists non-dir files or first level files under the directories in the given path pattern
func ListFiles(directoryOrFilePattern string) ([]string, error) {
	inputList, gerr := filepath.Glob(directoryOrFilePattern)
	if gerr != nil {
		return nil, gerr
	}
	pathList := make([]string, 0, len(inputList)*2+10)
	for _, input := range inputList {
		stat, serr := os.Stat(input)
		if serr != nil {
			return nil, serr
		}
		if !stat.IsDir() {
			pathList = append(pathList, input)
			continue
		}
		fileList, rerr := os.ReadDir(input)
		if rerr != nil {
			return nil, rerr
		}
		for _, file := range fileList {
			if file.IsDir() {
				continue
			}
			pathList = append(pathList, filepath.Join(input, file.Name()))
		}
	}
	slices.Sort(pathList)
	return slices.Compact(pathList), nil
}

// ReplaceExt replaces the extension of filename's base name, e.g. ("a/img.bin", ".txt") => "img.txt"
func ReplaceExt(filename string, newExt string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + newExt
}
