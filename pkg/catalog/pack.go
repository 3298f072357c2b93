package catalog

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// PackVersion is the current pack layout version
const PackVersion = 1

// Pack is a keyword catalog stored as msgpack. Keywords keep their original
// form and order.
type Pack struct {
	Version  int      `msgpack:"v"`
	Name     string   `msgpack:"n"`
	Keywords []string `msgpack:"k"`
}

type packHeader struct {
	Version int `msgpack:"v"`
}

// WritePack encodes keywords into a pack file at path
func WritePack(path, name string, keywords []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pack %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	pack := Pack{Version: PackVersion, Name: name, Keywords: keywords}
	if err := msgpack.NewEncoder(w).Encode(&pack); err != nil {
		return fmt.Errorf("failed to encode pack %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write pack %s: %w", path, err)
	}
	log.Debugf("Wrote pack %s: %d keywords", path, len(keywords))
	return nil
}

// ReadPack decodes a pack file
func ReadPack(path string) (*Pack, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pack %s: %w", path, err)
	}
	defer file.Close()

	var pack Pack
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&pack); err != nil {
		return nil, fmt.Errorf("failed to decode pack %s: %w", path, err)
	}
	if pack.Version != PackVersion {
		return nil, fmt.Errorf("unsupported pack version in %s: %d", path, pack.Version)
	}
	return &pack, nil
}

// readPackVersion decodes only the version field of a pack
func readPackVersion(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var header packHeader
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&header); err != nil {
		return 0, err
	}
	return header.Version, nil
}
