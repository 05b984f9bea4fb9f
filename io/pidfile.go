package io


import (
	"fmt"
	"os"
)


// ----------------------------------------------------------------------------


// Write the pid of the current process at `path`.
// The returned function removes the file.
//
func CreatePidfile(path string) (func (), error) {
	var err error

	err = createPidfile(path)
	if err != nil {
		return nil, err
	}

	return func () { os.Remove(path) }, nil
}


// ----------------------------------------------------------------------------


func createPidfile(path string) error {
	var file *os.File
	var err error

	file, err = os.OpenFile(path, os.O_WRONLY | os.O_CREATE | os.O_EXCL,
		0644)
	if err != nil {
		return err
	}

	defer file.Close()

	_, err = fmt.Fprintf(file, "%d\n", os.Getpid())

	return err
}
