package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileCartStore keeps the serialized cart in a JSON file, standing in for the
// browser's durable local storage. A missing file is an empty cart.
type FileCartStore struct {
	Path string
}

func (s *FileCartStore) Save(lines []CartLine) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (s *FileCartStore) Load() ([]CartLine, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var lines []CartLine
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}
