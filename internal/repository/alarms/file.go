package alarms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Repository defines persistence operations for alarm definitions.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Alarm, error)
	Save(ctx context.Context, alarms []*domain.Alarm) error
}

// Field names of a stored alarm.
const (
	fieldID             = "id"
	fieldTime           = "time"
	fieldTune           = "tune"
	fieldSnoozeInterval = "snooze_interval"
	fieldMaxSnoozes     = "max_snoozes"
)

var (
	// ErrNotFound is returned when the alarms file does not exist yet.
	ErrNotFound = errors.New("alarms not found")
	// errMalformedEntry is returned when a stored alarm is not an object.
	errMalformedEntry = errors.New("malformed alarm entry")
)

// FileRepository persists alarm definitions to a JSON file on disk.
// JSON is produced and consumed via protojson so the file has the same
// shape as the ListAlarms response of the gRPC API.
type FileRepository struct {
	// path is the filesystem location of the JSON file.
	path string
	// mu protects concurrent access to the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads alarm definitions from disk. Loaded alarms are idle.
func (r *FileRepository) Load(_ context.Context) ([]*domain.Alarm, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read alarms file: %w", err)
	}

	var list structpb.ListValue
	if err = protojson.Unmarshal(contents, &list); err != nil {
		return nil, fmt.Errorf("decode alarms file: %w", err)
	}

	result := make([]*domain.Alarm, 0, len(list.GetValues()))

	for i, value := range list.GetValues() {
		a, err := fromProto(value.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("alarm #%d: %w", i+1, err)
		}

		result = append(result, a)
	}

	return result, nil
}

// Save writes alarm definitions to disk, replacing the previous contents.
func (r *FileRepository) Save(_ context.Context, alarms []*domain.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := &structpb.ListValue{
		Values: make([]*structpb.Value, 0, len(alarms)),
	}

	for _, a := range alarms {
		list.Values = append(list.Values, structpb.NewStructValue(toProto(a)))
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode alarms: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write alarms file: %w", err)
	}

	return nil
}

// fromProto converts a stored struct into an idle domain Alarm.
func fromProto(s *structpb.Struct) (*domain.Alarm, error) {
	if s == nil {
		return nil, errMalformedEntry
	}

	fields := s.GetFields()

	t, err := domain.ParseTimeOfDay(fields[fieldTime].GetStringValue())
	if err != nil {
		return nil, err
	}

	spec := domain.Spec{
		Time:           t,
		Tune:           fields[fieldTune].GetStringValue(),
		SnoozeInterval: int(math.Round(fields[fieldSnoozeInterval].GetNumberValue())),
		MaxSnoozes:     int(math.Round(fields[fieldMaxSnoozes].GetNumberValue())),
	}

	return domain.New(fields[fieldID].GetStringValue(), spec)
}

// toProto converts the editable fields of an alarm into a struct.
// The operator-set time is stored, so a snoozed alarm restarts at its own time.
func toProto(a *domain.Alarm) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldID:             structpb.NewStringValue(a.ID),
			fieldTime:           structpb.NewStringValue(a.SetTime.String()),
			fieldTune:           structpb.NewStringValue(a.Tune),
			fieldSnoozeInterval: structpb.NewNumberValue(float64(a.SnoozeInterval)),
			fieldMaxSnoozes:     structpb.NewNumberValue(float64(a.MaxSnoozes)),
		},
	}
}
