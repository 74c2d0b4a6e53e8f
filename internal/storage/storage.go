// /internal/storage/storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20
	tracksHistoryLimit  int = 12
)

type Storage struct {
	ds *datastore.DataStore
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Param       string    `json:"param"`
	Datetime    time.Time `json:"datetime"`
}

type TrackHistoryRecord struct {
	TrackID   string    `json:"track_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URI       string    `json:"uri"`
	Requester string    `json:"requester"` // empty for autoplay picks
	PlayedAt  time.Time `json:"played_at"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TracksHistoryList   []TrackHistoryRecord   `json:"tracks_history"`
	AnnounceMuted       bool                   `json:"announce_muted"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// Helper function to get or create a Record for a guild
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			TracksHistoryList:   []TrackHistoryRecord{},
		}
		s.ds.Add(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	err = json.Unmarshal(jsonData, &record)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	if len(record.TracksHistoryList) > tracksHistoryLimit {
		record.TracksHistoryList = record.TracksHistoryList[len(record.TracksHistoryList)-tracksHistoryLimit:]
	}

	return &record, nil
}

// AppendCommandToHistory appends a command history record for a guild
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.CommandsHistoryList = append(record.CommandsHistoryList, command)
	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	return record.CommandsHistoryList, nil
}

// AppendTrackToHistory records a played track for the guild, newest last.
func (s *Storage) AppendTrackToHistory(guildID string, track TrackHistoryRecord) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.TracksHistoryList = append(record.TracksHistoryList, track)
	if len(record.TracksHistoryList) > tracksHistoryLimit {
		record.TracksHistoryList = record.TracksHistoryList[len(record.TracksHistoryList)-tracksHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	return record.TracksHistoryList, nil
}

// SetAnnounceMuted toggles now-playing announcements for a guild.
func (s *Storage) SetAnnounceMuted(guildID string, muted bool) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	record.AnnounceMuted = muted
	s.ds.Add(guildID, record)
	return nil
}

func (s *Storage) AnnounceMuted(guildID string) (bool, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}

	return record.AnnounceMuted, nil
}
