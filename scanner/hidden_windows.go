//go:build windows

package scanner

import "golang.org/x/sys/windows"

func isHidden(path, name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
