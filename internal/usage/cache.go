// Package usage tracks which projects and tasks the user books time on,
// so interactive pickers can surface frequent choices first.
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// cacheVersion guards the on-disk format. A file with a different version
// is discarded and the cache starts fresh.
const cacheVersion = 1

// record is one project/task combination the user has booked time on.
type record struct {
	ProjectID int64     `json:"project_id"`
	TaskID    int64     `json:"task_id"`
	Count     int       `json:"count"`
	LastUsed  time.Time `json:"last_used"`
}

type cacheFile struct {
	Version int      `json:"version"`
	Records []record `json:"records"`
}

// Cache is a small JSON-backed usage counter. Loading a missing or corrupt
// file yields an empty cache, never an error that blocks the flow.
type Cache struct {
	path    string
	records []record
}

// Load reads the cache at path. A missing file, unreadable JSON or a
// version mismatch all start an empty cache; the second return value
// reports whether an existing file had to be discarded.
func Load(path string) (*Cache, bool) {
	c := &Cache{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, false
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil || f.Version != cacheVersion {
		return c, true
	}

	c.records = f.Records
	return c, false
}

// Record notes one booking of the given project/task pair.
func (c *Cache) Record(projectID, taskID int64) {
	now := time.Now()
	for i := range c.records {
		if c.records[i].ProjectID == projectID && c.records[i].TaskID == taskID {
			c.records[i].Count++
			c.records[i].LastUsed = now
			return
		}
	}
	c.records = append(c.records, record{
		ProjectID: projectID,
		TaskID:    taskID,
		Count:     1,
		LastUsed:  now,
	})
}

// Save writes the cache back to its path, creating parent directories as
// needed.
func (c *Cache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(cacheFile{Version: cacheVersion, Records: c.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding usage cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing usage cache: %w", err)
	}
	return nil
}

// SortProjects orders project ids so recently and frequently used ones
// come first. Unknown projects keep their relative order at the end.
func (c *Cache) SortProjects(ids []int64) []int64 {
	score := make(map[int64]record)
	for _, r := range c.records {
		agg := score[r.ProjectID]
		agg.Count += r.Count
		if r.LastUsed.After(agg.LastUsed) {
			agg.LastUsed = r.LastUsed
		}
		score[r.ProjectID] = agg
	}
	return sortByScore(ids, score)
}

// SortTasks orders task ids within one project the same way.
func (c *Cache) SortTasks(projectID int64, ids []int64) []int64 {
	score := make(map[int64]record)
	for _, r := range c.records {
		if r.ProjectID != projectID {
			continue
		}
		score[r.TaskID] = r
	}
	return sortByScore(ids, score)
}

func sortByScore(ids []int64, score map[int64]record) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := score[out[i]]
		b, bok := score[out[j]]
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		if !a.LastUsed.Equal(b.LastUsed) {
			return a.LastUsed.After(b.LastUsed)
		}
		return a.Count > b.Count
	})
	return out
}
