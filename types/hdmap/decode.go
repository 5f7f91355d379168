package hdmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tidwall/gjson"
)

var ErrInvalidArchive = errors.New("invalid map archive")

// Decode parses a map archive. Sections may be objects keyed by element ID
// or arrays of elements carrying an "id" field. Elements that fail to decode
// are counted in Map.Skipped and otherwise ignored.
func Decode(data []byte) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not json", ErrInvalidArchive)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is %s", ErrInvalidArchive, root.Type)
	}

	m := &Map{}
	eachElement(root.Get("lane_segments"), m, func(id string, raw []byte) error {
		ls := LaneSegment{ID: id}
		if err := json.Unmarshal(raw, &ls); err != nil {
			return err
		}
		if ls.LaneType == "" {
			ls.LaneType = DefaultLaneType
		}
		if ls.LeftMarkType == "" {
			ls.LeftMarkType = DefaultMarkType
		}
		if ls.RightMarkType == "" {
			ls.RightMarkType = DefaultMarkType
		}
		m.LaneSegments = append(m.LaneSegments, ls)
		return nil
	})
	eachElement(root.Get("pedestrian_crossings"), m, func(id string, raw []byte) error {
		pc := PedestrianCrossing{ID: id}
		if err := json.Unmarshal(raw, &pc); err != nil {
			return err
		}
		m.PedestrianCrossings = append(m.PedestrianCrossings, pc)
		return nil
	})
	eachElement(root.Get("drivable_areas"), m, func(id string, raw []byte) error {
		da := DrivableArea{ID: id}
		if err := json.Unmarshal(raw, &da); err != nil {
			return err
		}
		m.DrivableAreas = append(m.DrivableAreas, da)
		return nil
	})
	return m, nil
}

func eachElement(section gjson.Result, m *Map, fn func(id string, raw []byte) error) {
	if !section.Exists() {
		return
	}
	section.ForEach(func(key, value gjson.Result) bool {
		id := value.Get("id").String()
		if id == "" || section.IsObject() {
			id = key.String()
		}
		if err := fn(id, []byte(value.Raw)); err != nil {
			slog.Debug("Skipping map element", "id", id, "error", err)
			m.Skipped++
		}
		return true
	})
}

func ReadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
