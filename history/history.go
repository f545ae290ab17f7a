// Package history keeps the list of finished downloads on disk.
package history

import (
	"sort"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/where"
)

// records are keyed by path, so downloading to the same file again replaces the entry
var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every record.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the records, newest first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.Slice(records, func(i, j int) bool {
		return records[i].At.After(records[j].At)
	})

	return records, nil
}

// Latest returns the newest record, if any.
func Latest() (mo.Option[*Record], error) {
	records, err := List()
	if err != nil {
		return mo.None[*Record](), err
	}
	if len(records) == 0 {
		return mo.None[*Record](), nil
	}
	return mo.Some(records[0]), nil
}

// Save stores record.
func Save(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[record.Path] = record
	return cacher.Set(saved)
}

// Remove deletes the record of path.
func Remove(path string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, path)
	return cacher.Set(saved)
}
