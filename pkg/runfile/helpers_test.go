package runfile_test

import (
	"os"

	"github.com/askiada/go-wbnm/pkg/runfile"
)

func readAll(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return runfile.ReadLines(file)
}
