package clock

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Struct field names used on the wire.
const (
	FieldID               = "id"
	FieldTime             = "time"
	FieldSetTime          = "set_time"
	FieldTune             = "tune"
	FieldSnoozeInterval   = "snooze_interval"
	FieldMaxSnoozes       = "max_snoozes"
	FieldSnoozeCount      = "snooze_count"
	FieldSnoozesRemaining = "snoozes_remaining"
	FieldIsSnoozing       = "is_snoozing"
	FieldState            = "state"
	FieldAlarm            = "alarm"
	FieldAlarms           = "alarms"
	FieldGranted          = "granted"
	FieldDisplay          = "display"
	FieldFormat           = "format"
)

var (
	// errMissingAlarm is returned when a response carries no alarm struct.
	errMissingAlarm = errors.New("response has no alarm")
	// errUnknownState is returned for a state name the domain does not know.
	errUnknownState = errors.New("unknown alarm state")
)

// AlarmRequest carries raw operator input for add and edit calls.
// Values are validated by the server.
type AlarmRequest struct {
	// ID selects the alarm to edit. Ignored by AddAlarm.
	ID string
	// Time is the trigger time as HH:MM or HH:MM:SS.
	Time string
	// Tune is the sound reference.
	Tune string
	// SnoozeInterval is the snooze length in minutes. Empty means default.
	SnoozeInterval string
	// MaxSnoozes is the snooze limit. Empty means default.
	MaxSnoozes string
}

// ToStruct encodes the request.
func (r AlarmRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldID:             structpb.NewStringValue(r.ID),
			FieldTime:           structpb.NewStringValue(r.Time),
			FieldTune:           structpb.NewStringValue(r.Tune),
			FieldSnoozeInterval: structpb.NewStringValue(r.SnoozeInterval),
			FieldMaxSnoozes:     structpb.NewStringValue(r.MaxSnoozes),
		},
	}
}

// specFromStruct validates request fields into a domain spec.
// Numeric fields may arrive either as strings or as numbers.
func specFromStruct(s *structpb.Struct) (domain.Spec, error) {
	fields := s.GetFields()

	return domain.ParseSpec(
		fields[FieldTime].GetStringValue(),
		fields[FieldTune].GetStringValue(),
		rawField(fields[FieldSnoozeInterval]),
		rawField(fields[FieldMaxSnoozes]),
	)
}

func rawField(v *structpb.Value) string {
	if v == nil {
		return ""
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_StringValue:
		return kind.StringValue
	default:
		return ""
	}
}

// AlarmToStruct encodes a domain alarm with its runtime state.
func AlarmToStruct(a *domain.Alarm) *structpb.Struct {
	if a == nil {
		return &structpb.Struct{}
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldID:               structpb.NewStringValue(a.ID),
			FieldTime:             structpb.NewStringValue(a.ScheduledTime.String()),
			FieldSetTime:          structpb.NewStringValue(a.SetTime.String()),
			FieldTune:             structpb.NewStringValue(a.Tune),
			FieldSnoozeInterval:   structpb.NewNumberValue(float64(a.SnoozeInterval)),
			FieldMaxSnoozes:       structpb.NewNumberValue(float64(a.MaxSnoozes)),
			FieldSnoozeCount:      structpb.NewNumberValue(float64(a.SnoozeCount)),
			FieldSnoozesRemaining: structpb.NewNumberValue(float64(a.SnoozesRemaining())),
			FieldIsSnoozing:       structpb.NewBoolValue(a.IsSnoozing),
			FieldState:            structpb.NewStringValue(a.State.String()),
		},
	}
}

// AlarmFromStruct decodes an alarm produced by AlarmToStruct.
func AlarmFromStruct(s *structpb.Struct) (*domain.Alarm, error) {
	if s == nil || len(s.GetFields()) == 0 {
		return nil, errMissingAlarm
	}

	fields := s.GetFields()

	scheduled, err := domain.ParseTimeOfDay(fields[FieldTime].GetStringValue())
	if err != nil {
		return nil, err
	}

	set := scheduled
	if raw := fields[FieldSetTime].GetStringValue(); raw != "" {
		if set, err = domain.ParseTimeOfDay(raw); err != nil {
			return nil, err
		}
	}

	state, err := parseState(fields[FieldState].GetStringValue())
	if err != nil {
		return nil, err
	}

	return &domain.Alarm{
		ID:             fields[FieldID].GetStringValue(),
		ScheduledTime:  scheduled,
		SetTime:        set,
		Tune:           fields[FieldTune].GetStringValue(),
		SnoozeInterval: intField(fields[FieldSnoozeInterval]),
		MaxSnoozes:     intField(fields[FieldMaxSnoozes]),
		SnoozeCount:    intField(fields[FieldSnoozeCount]),
		IsSnoozing:     fields[FieldIsSnoozing].GetBoolValue(),
		State:          state,
	}, nil
}

// AlarmsFromStruct decodes a ListAlarms response.
func AlarmsFromStruct(s *structpb.Struct) ([]*domain.Alarm, error) {
	values := s.GetFields()[FieldAlarms].GetListValue().GetValues()
	result := make([]*domain.Alarm, 0, len(values))

	for i, v := range values {
		a, err := AlarmFromStruct(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("alarm #%d: %w", i, err)
		}

		result = append(result, a)
	}

	return result, nil
}

func alarmsToStruct(alarms []*domain.Alarm) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(alarms))
	for _, a := range alarms {
		values = append(values, structpb.NewStructValue(AlarmToStruct(a)))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldAlarms: structpb.NewListValue(&structpb.ListValue{Values: values}),
		},
	}
}

func intField(v *structpb.Value) int {
	return int(math.Round(v.GetNumberValue()))
}

func parseState(name string) (domain.State, error) {
	for _, st := range []domain.State{
		domain.StateIdle,
		domain.StateRinging,
		domain.StateSnoozing,
		domain.StateRemoved,
	} {
		if st.String() == name {
			return st, nil
		}
	}

	return domain.StateIdle, fmt.Errorf("%w: %q", errUnknownState, name)
}
