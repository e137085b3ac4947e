package scripthost

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePresenter is an implementation of Presenter that records alerts to a
// file. A file is created per interpreter instance. The file is formatted as
// newline-delimited JSON.
type FilePresenter struct {
	directory string
}

func NewFilePresenter(directory string) *FilePresenter {
	return &FilePresenter{directory: directory}
}

func (p *FilePresenter) instanceAlertPath(instanceID string) string {
	if instanceID == "" {
		instanceID = "detached"
	}
	return filepath.Join(p.directory, fmt.Sprintf("%s.jsonl", instanceID))
}

// History returns the alerts recorded for an interpreter instance.
func (p *FilePresenter) History(instanceID string) ([]*Alert, error) {
	data, err := os.ReadFile(p.instanceAlertPath(instanceID))
	if err != nil {
		return nil, err
	}
	var alerts []*Alert
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var alert Alert
		if err := json.Unmarshal([]byte(line), &alert); err != nil {
			return nil, err
		}
		alerts = append(alerts, &alert)
	}
	return alerts, nil
}

func (p *FilePresenter) Present(alert *Alert) error {
	json, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	filePath := p.instanceAlertPath(alert.InstanceID)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write([]byte(string(json) + "\n")); err != nil {
		return err
	}
	return f.Sync()
}
