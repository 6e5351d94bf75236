package compose

import (
	"encoding/json"
	"fmt"
	"strings"
)

// psRecord is the engine's `compose ps --format json` record shape. Depending
// on the engine version the output is either one JSON object per line or a
// single JSON array; both carry the same fields.
type psRecord struct {
	ID         string        `json:"ID"`
	Name       string        `json:"Name"`
	Service    string        `json:"Service"`
	State      string        `json:"State"`
	Status     string        `json:"Status"`
	Health     string        `json:"Health"`
	Publishers []psPublisher `json:"Publishers"`
}

// psPublisher is one published port in a psRecord.
type psPublisher struct {
	URL           string `json:"URL"`
	TargetPort    int    `json:"TargetPort"`
	PublishedPort int    `json:"PublishedPort"`
	Protocol      string `json:"Protocol"`
}

// parsePsOutput parses `compose ps --format json` output into per-service
// info keyed by logical service name. Handles both the newline-delimited
// form (engine >= v2.21) and the older single-array form.
func parsePsOutput(out string) (map[string]ServiceInfo, error) {
	trimmed := strings.TrimSpace(out)
	services := make(map[string]ServiceInfo)
	if trimmed == "" {
		return services, nil
	}

	var records []psRecord
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
			return nil, fmt.Errorf("parse service list: %w", err)
		}
	} else {
		for _, line := range strings.Split(trimmed, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var rec psRecord
			if err := json.Unmarshal([]byte(line), &rec); err != nil {
				return nil, fmt.Errorf("parse service list line: %w", err)
			}
			records = append(records, rec)
		}
	}

	for _, rec := range records {
		name := rec.Service
		if name == "" {
			// Records without a service name (e.g. one-off containers)
			// cannot be addressed by wait targets; skip them.
			continue
		}
		services[name] = ServiceInfo{
			ContainerID:   rec.ID,
			ContainerName: rec.Name,
			Status:        statusText(rec),
			Ports:         publishedPorts(rec.Publishers),
		}
	}
	return services, nil
}

// statusText combines the record's free-text status, state, and health into
// the single status string that readiness classification interprets. Some
// engine versions omit the "(healthy)" suffix from Status and report health
// separately; folding it back in keeps the substring contract intact.
func statusText(rec psRecord) string {
	status := rec.Status
	if status == "" {
		status = rec.State
	}
	if rec.Health != "" && !strings.Contains(strings.ToLower(status), strings.ToLower(rec.Health)) {
		status = status + " (" + rec.Health + ")"
	}
	return status
}

// publishedPorts converts publishers to port mappings, keeping only entries
// actually published on the host.
func publishedPorts(pubs []psPublisher) []PortMapping {
	var ports []PortMapping
	for _, p := range pubs {
		if p.PublishedPort == 0 {
			continue
		}
		ports = append(ports, PortMapping{
			Container: p.TargetPort,
			Host:      p.PublishedPort,
			Protocol:  p.Protocol,
		})
	}
	return ports
}
