package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Sessions          map[string]*SessionStats
	Errors            int
	Downloads         int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single device session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Model     string
	Serial    string
	Releases  int
	Downloads int
	Errors    int
}

// CollectStats reads the log file and aggregates its events.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Sessions:          make(map[string]*SessionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (stats *Stats) add(event log.Event) {
	stats.TotalEvents++
	stats.EventsByLayer[event.Layer]++
	stats.EventsByCategory[event.Category]++
	stats.EventsByDirection[event.Direction]++

	// Track time range
	if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
		stats.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(stats.TimeRange.End) {
		stats.TimeRange.End = event.Timestamp
	}

	sess, ok := stats.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		stats.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.Model != "" && sess.Model == "" {
		sess.Model = event.Model
		sess.Serial = event.Serial
	}

	switch {
	case event.Error != nil:
		stats.Errors++
		sess.Errors++
	case event.Download != nil && event.Download.Kind == "Finished":
		stats.Downloads++
		sess.Downloads++
	case event.Release != nil && event.Release.NewState == "Releasing":
		sess.Releases++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Camera Event Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerDriver, log.LayerCamera, log.LayerBridge} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for cat := log.CategoryProperty; cat <= log.CategoryFrame; cat++ {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(s.id), s.stats.Events, duration)
			if s.stats.Model != "" {
				fmt.Fprintf(w, "           Camera: %s %s\n", s.stats.Model, s.stats.Serial)
			}
			if s.stats.Releases > 0 || s.stats.Downloads > 0 {
				fmt.Fprintf(w, "           Releases: %d, downloads: %d\n", s.stats.Releases, s.stats.Downloads)
			}
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", s.stats.Errors)
			}
		}
	}

	if stats.Downloads > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Downloads: %d\n", stats.Downloads)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
