package routine

import (
	"go.uber.org/zap"

	"routine-maker/backend/internal/model"
)

// MeetingKind tags a meeting entry as a class or a lab.
type MeetingKind string

const (
	KindClass MeetingKind = "class"
	KindLab   MeetingKind = "lab"
)

// Cell is one meeting entry placed in a grid cell. Section points into the
// caller's slice and must not be modified.
type Cell struct {
	Kind      MeetingKind
	Section   *model.Section
	TimeLabel string
	Day       string
}

// Grid maps every (day, display slot) pair to the entries placed there.
type Grid struct {
	catalog *SlotCatalog
	cells   [7][][]Cell
}

// Row is one display slot across the full day axis.
type Row struct {
	Slot  DisplaySlot
	Cells [7][]Cell
}

// Builder projects sections onto the weekly grid. It holds no per-call state
// and may be shared.
type Builder struct {
	catalog *SlotCatalog
	parser  *TimeParser
	logger  *zap.Logger
}

// NewBuilder returns a grid builder over catalog.
func NewBuilder(catalog *SlotCatalog, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = DefaultSlotCatalog()
	}
	return &Builder{catalog: catalog, parser: NewTimeParser(logger), logger: logger}
}

// Catalog returns the display slots the builder lays out.
func (b *Builder) Catalog() *SlotCatalog { return b.catalog }

// BuildGrid places every class and lab entry of sections whose day is in
// activeDays into each display slot it overlaps. All seven days are present in
// the result whatever activeDays holds.
func (b *Builder) BuildGrid(sections []model.Section, activeDays DaySet) *Grid {
	g := newGrid(b.catalog)

	for i := range sections {
		sec := &sections[i]
		b.place(g, sec, KindClass, sec.SectionSchedule.ClassSchedules, activeDays)
		b.place(g, sec, KindLab, sec.LabSchedules, activeDays)
	}
	return g
}

func (b *Builder) place(g *Grid, sec *model.Section, kind MeetingKind, meetings []model.Meeting, activeDays DaySet) {
	for _, m := range meetings {
		day, err := ParseDay(m.Day)
		if err != nil {
			b.logger.Warn("meeting skipped: unrecognised day",
				zap.String("course", sec.CourseCode),
				zap.String("section", sec.SectionName.String()),
				zap.String("kind", string(kind)),
				zap.String("day", m.Day),
			)
			continue
		}
		if !activeDays.Has(day) {
			continue
		}

		start, end := b.parser.Span(m)
		label := meetingLabel(m)

		for si := 0; si < b.catalog.Len(); si++ {
			slot := b.catalog.Slot(si)
			if Overlaps(start, end, slot.Start, slot.End) {
				g.cells[day][si] = append(g.cells[day][si], Cell{
					Kind:      kind,
					Section:   sec,
					TimeLabel: label,
					Day:       m.Day,
				})
			}
		}
	}
}

// Span returns a meeting's minutes, preferring values precomputed upstream
// over parsing the raw strings.
func (p *TimeParser) Span(m model.Meeting) (int, int) {
	var start, end int
	if m.StartMinutes != nil {
		start = *m.StartMinutes
	} else {
		start = p.Minutes(m.StartTime)
	}
	if m.EndMinutes != nil {
		end = *m.EndMinutes
	} else {
		end = p.Minutes(m.EndTime)
	}
	return start, end
}

// meetingLabel is the display time of a meeting.
func meetingLabel(m model.Meeting) string {
	if m.FormattedTime != "" {
		return m.FormattedTime
	}
	return FormatRange12(m.StartTime, m.EndTime)
}

func newGrid(catalog *SlotCatalog) *Grid {
	g := &Grid{catalog: catalog}
	for _, d := range AllDays {
		g.cells[d] = make([][]Cell, catalog.Len())
		for si := range g.cells[d] {
			g.cells[d][si] = []Cell{}
		}
	}
	return g
}

// Catalog returns the slot catalog the grid was laid out with.
func (g *Grid) Catalog() *SlotCatalog { return g.catalog }

// Cell returns the entries at (day, slot). The slice is empty, never nil, for
// any valid coordinate.
func (g *Grid) Cell(day Day, slot int) []Cell {
	if day < Sunday || day > Saturday || slot < 0 || slot >= g.catalog.Len() {
		return nil
	}
	return g.cells[day][slot]
}

// Rows returns the grid slot by slot, the layout used by tables and exports.
func (g *Grid) Rows() []Row {
	rows := make([]Row, g.catalog.Len())
	for si := range rows {
		rows[si].Slot = g.catalog.Slot(si)
		for _, d := range AllDays {
			rows[si].Cells[d] = g.cells[d][si]
		}
	}
	return rows
}

// Placements counts placed cells across the grid.
func (g *Grid) Placements() int {
	n := 0
	for _, d := range AllDays {
		for _, c := range g.cells[d] {
			n += len(c)
		}
	}
	return n
}
