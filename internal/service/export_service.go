package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

type generationReader interface {
	Get(ctx context.Context, id string) (*models.GenerationDetail, error)
}

type nameDirectory interface {
	Names(ctx context.Context, sectionIDs, subjectIDs, teacherIDs []string) (models.NameDirectory, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type gridRenderer interface {
	Render(title string, grids []export.Grid) ([]byte, error)
}

type workbookRenderer interface {
	Render(grids []export.Grid) ([]byte, error)
}

type calendarRenderer interface {
	Render(name string, ref time.Time, events []export.CalendarEvent) ([]byte, error)
}

// ExportRenderers groups the encoders used by ExportService. Nil members use package defaults.
type ExportRenderers struct {
	CSV      csvRenderer
	PDF      gridRenderer
	XLSX     workbookRenderer
	Calendar calendarRenderer
}

var slotCSVHeaders = []string{"section", "day", "period", "subject", "teacher", "status", "locked"}

// ExportService renders stored generations as files.
type ExportService struct {
	timetables generationReader
	names      nameDirectory
	renderers  ExportRenderers
	now        func() time.Time
	logger     *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(timetables generationReader, names nameDirectory, renderers ExportRenderers, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderers.CSV == nil {
		renderers.CSV = export.NewCSVExporter()
	}
	if renderers.PDF == nil {
		renderers.PDF = export.NewPDFExporter()
	}
	if renderers.XLSX == nil {
		renderers.XLSX = export.NewXLSXExporter()
	}
	if renderers.Calendar == nil {
		ics, _ := export.NewICSExporter("07:30", 45*time.Minute, "UTC")
		renderers.Calendar = ics
	}
	return &ExportService{timetables: timetables, names: names, renderers: renderers, now: time.Now, logger: logger}
}

// Export renders every section of a generation in the requested format.
func (s *ExportService) Export(ctx context.Context, id string, format dto.ExportFormat) (*dto.ExportFile, error) {
	if format == "" {
		format = dto.ExportFormatCSV
	}
	switch format {
	case dto.ExportFormatCSV, dto.ExportFormatPDF, dto.ExportFormatXLSX:
	case dto.ExportFormatICS:
		return nil, appErrors.Clone(appErrors.ErrValidation, "calendar exports are issued per teacher")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	detail, err := s.timetables.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	slots := scheduledSlots(detail.Slots)
	dir, err := s.lookupNames(ctx, slots)
	if err != nil {
		return nil, err
	}

	var (
		content     []byte
		contentType string
	)
	switch format {
	case dto.ExportFormatCSV:
		content, err = s.renderers.CSV.Render(slotDataset(slots, dir))
		contentType = "text/csv"
	case dto.ExportFormatPDF:
		content, err = s.renderers.PDF.Render(detail.Name, sectionGrids(detail.Config, slots, dir))
		contentType = "application/pdf"
	case dto.ExportFormatXLSX:
		content, err = s.renderers.XLSX.Render(sectionGrids(detail.Config, slots, dir))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("timetable exported",
		zap.String("generation_id", id),
		zap.String("format", string(format)),
		zap.Int("slots", len(slots)),
	)
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("timetable-%s.%s", id, format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

// TeacherCalendar renders the weekly lessons of one teacher as an iCalendar feed.
func (s *ExportService) TeacherCalendar(ctx context.Context, id, teacherID string) (*dto.ExportFile, error) {
	detail, err := s.timetables.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var lessons []models.TimetableSlot
	for _, slot := range scheduledSlots(detail.Slots) {
		if slot.TeacherID != nil && *slot.TeacherID == teacherID {
			lessons = append(lessons, slot)
		}
	}
	if len(lessons) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %s has no lessons in generation %s", teacherID, id))
	}
	dir, err := s.lookupNames(ctx, lessons)
	if err != nil {
		return nil, err
	}

	events := make([]export.CalendarEvent, 0, len(lessons))
	for _, slot := range lessons {
		event := export.CalendarEvent{
			UID:     slot.ID + "@sma-timetable",
			Summary: fmt.Sprintf("%s %s", dir.Subject(slot.SubjectID), dir.Section(slot.SectionID)),
			Day:     slot.Day,
			Period:  slot.Period,
		}
		if slot.Status == models.SlotStatusSubstituted {
			event.Description = "substitute lesson"
		}
		events = append(events, event)
	}

	content, err := s.renderers.Calendar.Render(fmt.Sprintf("%s - %s", detail.Name, dir.Teacher(&teacherID)), s.now(), events)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("timetable-%s-%s.ics", id, teacherID),
		ContentType: "text/calendar",
		Content:     content,
	}, nil
}

func (s *ExportService) lookupNames(ctx context.Context, slots []models.TimetableSlot) (models.NameDirectory, error) {
	sections, subjects, teachers := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	for _, slot := range slots {
		sections[slot.SectionID] = struct{}{}
		if slot.SubjectID != nil {
			subjects[*slot.SubjectID] = struct{}{}
		}
		if slot.TeacherID != nil {
			teachers[*slot.TeacherID] = struct{}{}
		}
	}
	dir, err := s.names.Names(ctx, sortedKeys(sections), sortedKeys(subjects), sortedKeys(teachers))
	if err != nil {
		return models.NameDirectory{}, appErrors.FromDatabase(err, "names not found", "failed to load roster names")
	}
	return dir, nil
}

// scheduledSlots drops cancelled cells and orders the rest by section, day and period.
func scheduledSlots(slots []models.TimetableSlot) []models.TimetableSlot {
	out := make([]models.TimetableSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Status != models.SlotStatusCancelled {
			out = append(out, slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SectionID != out[j].SectionID {
			return out[i].SectionID < out[j].SectionID
		}
		if out[i].Day != out[j].Day {
			return dayIndex(out[i].Day) < dayIndex(out[j].Day)
		}
		return out[i].Period < out[j].Period
	})
	return out
}

func slotDataset(slots []models.TimetableSlot, dir models.NameDirectory) export.Dataset {
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, []string{
			dir.Section(slot.SectionID),
			slot.Day,
			strconv.Itoa(slot.Period),
			dir.Subject(slot.SubjectID),
			dir.Teacher(slot.TeacherID),
			string(slot.Status),
			strconv.FormatBool(slot.IsLocked),
		})
	}
	return export.Dataset{Headers: slotCSVHeaders, Rows: rows}
}

func sectionGrids(cfg models.GenerationConfig, slots []models.TimetableSlot, dir models.NameDirectory) []export.Grid {
	breaks := cfg.BreakSet()
	var (
		grids   []export.Grid
		current string
	)
	for _, slot := range slots {
		if len(grids) == 0 || slot.SectionID != current {
			current = slot.SectionID
			grids = append(grids, export.NewGrid(dir.Section(slot.SectionID), cfg.Days, cfg.PeriodsPerDay, breaks))
		}
		label := dir.Subject(slot.SubjectID)
		if teacher := dir.Teacher(slot.TeacherID); teacher != "" {
			label = fmt.Sprintf("%s (%s)", label, teacher)
		}
		grids[len(grids)-1].Put(slot.Day, slot.Period, label)
	}
	if len(grids) == 0 {
		grids = append(grids, export.NewGrid("Timetable", cfg.Days, cfg.PeriodsPerDay, breaks))
	}
	return grids
}

func dayIndex(day string) int {
	for i, d := range models.Weekdays {
		if d == day {
			return i
		}
	}
	return len(models.Weekdays)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
