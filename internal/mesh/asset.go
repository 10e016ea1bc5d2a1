package mesh

import (
	"fmt"
	"os"
)

func readAsset(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh asset: %w", err)
	}
	return data, nil
}
