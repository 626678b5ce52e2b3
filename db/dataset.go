package db

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"student-marks-go/models"
)

// Dataset is the in-memory list of student records. It is built once at
// startup and never modified afterwards, so it is safe to share between
// request handlers without locking.
type Dataset struct {
	records     []models.StudentRecord
	lowered     []string // lower-cased names, same order as records
	fingerprint string
}

// NewDataset builds a Dataset preserving the order of records
func NewDataset(records []models.StudentRecord) *Dataset {
	items := append([]models.StudentRecord{}, records...)
	lowered := make([]string, len(items))
	for i, r := range items {
		lowered[i] = strings.ToLower(r.Name)
	}
	return &Dataset{
		records:     items,
		lowered:     lowered,
		fingerprint: fingerprintOf(items),
	}
}

// Len returns the number of loaded records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Fingerprint identifies the dataset contents. Two datasets with the same
// records in the same order share a fingerprint.
func (d *Dataset) Fingerprint() string {
	return d.fingerprint
}

// FindMarks returns the marks of the first record whose name matches
// the given one, ignoring letter case.
func (d *Dataset) FindMarks(name string) (int, bool) {
	wanted := strings.ToLower(name)
	for i, candidate := range d.lowered {
		if candidate == wanted {
			return d.records[i].Marks, true
		}
	}
	return 0, false
}

// Lookup resolves every requested name in order. The result always has the
// same length as names; unmatched names are nil.
func (d *Dataset) Lookup(names []string) []*int {
	marks := make([]*int, len(names))
	for i, name := range names {
		if m, ok := d.FindMarks(name); ok {
			value := m
			marks[i] = &value
		}
	}
	return marks
}

func fingerprintOf(records []models.StudentRecord) string {
	h := sha1.New()
	for _, r := range records {
		fmt.Fprintf(h, "%q:%d\n", r.Name, r.Marks)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// --- Loading ---

// ResolveDataPath makes a relative data path relative to the directory of the
// running executable rather than the working directory.
func ResolveDataPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		log.Printf("Warning: could not determine executable location, using %s as is: %v", path, err)
		return path
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), path)
}

// LoadDataset reads the student records stored at path. Files ending in
// .xlsx are read as a spreadsheet roster, anything else as a JSON array.
// A missing or malformed file is not fatal: a warning is logged and an
// empty dataset is returned so the service can still answer requests.
func LoadDataset(path string) *Dataset {
	records, err := readRecords(path)
	if err != nil {
		log.Printf("Warning: %v. No student data loaded.", err)
		return NewDataset(nil)
	}
	log.Printf("Loaded %d student records from %s", len(records), path)
	return NewDataset(records)
}

func readRecords(path string) ([]models.StudentRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readExcelRecords(path)
	}
	return readJSONRecords(path)
}

// jsonRecord mirrors models.StudentRecord with pointers so that null or
// missing fields can be told apart from empty names and zero marks.
type jsonRecord struct {
	Name  *string `json:"name"`
	Marks *int    `json:"marks"`
}

func readJSONRecords(path string) ([]models.StudentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	records := make([]models.StudentRecord, 0, len(raw))
	for i, r := range raw {
		if r.Name == nil || r.Marks == nil {
			return nil, fmt.Errorf("invalid record %d in data file %s: name and marks are required", i, path)
		}
		records = append(records, models.StudentRecord{Name: *r.Name, Marks: *r.Marks})
	}
	return records, nil
}
