package storage

import (
	"os"
	"time"

	json "github.com/goccy/go-json"

	"cvdd/internal/models"
	"cvdd/internal/providers"
	"cvdd/internal/storage/interfaces"
)

type FileManager struct {
	store      KeyValueStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store KeyValueStore, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := models.Snapshot{
		Version: models.SnapshotVersion,
		SavedAt: time.Now(),
		Entries: make(map[string]string),
	}
	for _, key := range f.store.Keys() {
		if val, ok := f.store.Get(key); ok {
			snapshot.Entries[key] = val
		}
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	// Try the versioned envelope first
	var snapshot models.Snapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err == nil && snapshot.Entries != nil {
		f.restore(snapshot.Entries)
		return nil
	}

	// Try the v1 format: a bare key→value map without the envelope
	f.logger.Warnf(providers.TypeStore, "Inconsistent snapshot found, try to migrate from old data format")
	var entries map[string]string
	if err := json.Unmarshal(decompressedData, &entries); err != nil {
		f.logger.Warnf(providers.TypeStore, "Migration failed")
		return err
	}
	f.logger.Warnf(providers.TypeStore, "Migration from v1 format successful")
	f.restore(entries)
	return nil
}

func (f *FileManager) restore(entries map[string]string) {
	for key, val := range entries {
		if err := f.store.Set(key, val); err != nil {
			f.logger.Errorf(providers.TypeStore, "Skipping key %s on restore: %s", key, err)
		}
	}
}
