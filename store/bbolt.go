package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/headpin-io/headpin-app/gpio"
	"go.etcd.io/bbolt"
)

type BBolt struct {
	db *bbolt.DB
}

const (
	bboltHeadpinBucket = "headpin"
	bboltPresetBucket  = "presets" // child of headpin

	// headpin keys
	bboltDefaultPresetKey = "default-preset"
)

// OpenBBolt opens a BBoltDB database at the given path and creates the needed buckets
// if they don't exist.
func OpenBBolt(path string, mode os.FileMode, options *bbolt.Options) (Store, error) {
	db, err := bbolt.Open(path, mode, options)
	if err != nil {
		return nil, fmt.Errorf("unable to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		headpinBucket, err := tx.CreateBucketIfNotExists([]byte(bboltHeadpinBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltHeadpinBucket, err)
		}

		_, err = headpinBucket.CreateBucketIfNotExists([]byte(bboltPresetBucket))
		if err != nil {
			return fmt.Errorf("unable to create bucket %q: %w", bboltPresetBucket, err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create bbolt buckets: %w", err)
	}

	return &BBolt{
		db: db,
	}, nil
}

func (b *BBolt) Close() error {
	return b.db.Close()
}

func (b *BBolt) Preset(name string) (gpio.Preset, error) {
	var p gpio.Preset
	err := b.db.View(func(tx *bbolt.Tx) error {
		headpinBucket := tx.Bucket([]byte(bboltHeadpinBucket))
		presetBucket := headpinBucket.Bucket([]byte(bboltPresetBucket))

		presetJSON := presetBucket.Get([]byte(name))
		if presetJSON == nil {
			return ErrNoPreset
		}

		if err := json.Unmarshal(presetJSON, &p); err != nil {
			return fmt.Errorf("unable to unmarshal preset JSON: %w", err)
		}

		return nil
	})
	if err != nil {
		return p, fmt.Errorf("unable to get preset %q: %w", name, err)
	}

	return p, nil
}

func (b *BBolt) ListPresets() ([]string, error) {
	names := make([]string, 0)

	err := b.db.View(func(tx *bbolt.Tx) error {
		headpinBucket := tx.Bucket([]byte(bboltHeadpinBucket))
		presetBucket := headpinBucket.Bucket([]byte(bboltPresetBucket))

		err := presetBucket.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
		if err != nil {
			return fmt.Errorf("unable to iterate over preset bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list presets: %w", err)
	}

	return names, nil
}

func (b *BBolt) PutPreset(name string, p gpio.Preset) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		presetJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("unable to marshal preset: %w", err)
		}

		headpinBucket := tx.Bucket([]byte(bboltHeadpinBucket))
		presetBucket := headpinBucket.Bucket([]byte(bboltPresetBucket))
		if err := presetBucket.Put([]byte(name), presetJSON); err != nil {
			return fmt.Errorf("unable to put preset %q: %w", name, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to update preset: %w", err)
	}

	return nil
}

func (b *BBolt) DeletePreset(name string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		headpinBucket := tx.Bucket([]byte(bboltHeadpinBucket))
		presetBucket := headpinBucket.Bucket([]byte(bboltPresetBucket))
		if err := presetBucket.Delete([]byte(name)); err != nil {
			return fmt.Errorf("unable to delete preset %q: %w", name, err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to update preset bucket: %w", err)
	}

	return nil
}

func (b *BBolt) DefaultPreset() (string, error) {
	var def string

	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bboltHeadpinBucket))
		def = string(bucket.Get([]byte(bboltDefaultPresetKey)))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("unable to get default preset: %w", err)
	}

	return def, nil
}

func (b *BBolt) PutDefaultPreset(def string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bboltHeadpinBucket))
		if err := bucket.Put([]byte(bboltDefaultPresetKey), []byte(def)); err != nil {
			return fmt.Errorf("unable to put default preset name: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to put default preset: %w", err)
	}

	return nil
}
