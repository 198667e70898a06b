package domain

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Row, Insert and Update shapes of the relational store. Insert leaves ID and
// timestamps empty for the database to assign. Update carries only the
// columns to change; nil means untouched.

// Field is one column assignment of a partial update.
type Field struct {
	Column string
	Value  interface{}
}

func required(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.Wrapf(ErrInvalidInput, "%s is required", name)
	}
	return nil
}

func requiredPtr(name string, v *string) error {
	if v == nil {
		return nil
	}
	return required(name, *v)
}

// arenas

type ArenaRow struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	SportsType  string     `json:"sports_type"`
	ManagerID   string     `json:"manager_id"`
	Approved    *bool      `json:"approved"`
	ContactInfo *string    `json:"contact_info"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ArenaInsert struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	SportsType  string  `json:"sports_type"`
	ManagerID   string  `json:"manager_id"`
	Approved    *bool   `json:"approved,omitempty"`
	ContactInfo *string `json:"contact_info,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (a ArenaInsert) Validate() error {
	return errors.CombineErrors(
		errors.CombineErrors(required("name", a.Name), required("location", a.Location)),
		errors.CombineErrors(required("sports_type", a.SportsType), required("manager_id", a.ManagerID)),
	)
}

type ArenaUpdate struct {
	Name        *string `json:"name,omitempty"`
	Location    *string `json:"location,omitempty"`
	SportsType  *string `json:"sports_type,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
	Approved    *bool   `json:"approved,omitempty"`
	ContactInfo *string `json:"contact_info,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func (u ArenaUpdate) Validate() error {
	if err := requiredPtr("name", u.Name); err != nil {
		return err
	}
	if err := requiredPtr("location", u.Location); err != nil {
		return err
	}
	return requiredPtr("sports_type", u.SportsType)
}

func (u ArenaUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "name", u.Name)
	f = appendField(f, "location", u.Location)
	f = appendField(f, "sports_type", u.SportsType)
	f = appendField(f, "manager_id", u.ManagerID)
	f = appendField(f, "approved", u.Approved)
	f = appendField(f, "contact_info", u.ContactInfo)
	f = appendField(f, "description", u.Description)
	f = appendField(f, "image_url", u.ImageURL)
	return f
}

// slots

type SlotRow struct {
	ID        string     `json:"id"`
	ArenaID   string     `json:"arena_id"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Price     *float64   `json:"price"`
	Status    SlotStatus `json:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

const ClockLayout = "15:04"

type SlotInsert struct {
	ID        string      `json:"id,omitempty"`
	ArenaID   string      `json:"arena_id"`
	Date      string      `json:"date"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Price     *float64    `json:"price,omitempty"`
	Status    *SlotStatus `json:"status,omitempty"`
}

func (s SlotInsert) Validate() error {
	if err := required("arena_id", s.ArenaID); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return errors.Wrapf(ErrInvalidInput, "date %q must be YYYY-MM-DD", s.Date)
	}
	start, err := time.Parse(ClockLayout, s.StartTime)
	if err != nil {
		return errors.Wrapf(ErrInvalidInput, "start_time %q must be HH:MM", s.StartTime)
	}
	end, err := time.Parse(ClockLayout, s.EndTime)
	if err != nil {
		return errors.Wrapf(ErrInvalidInput, "end_time %q must be HH:MM", s.EndTime)
	}
	if !end.After(start) {
		return errors.Wrap(ErrInvalidInput, "end_time must be after start_time")
	}
	if s.Price != nil && *s.Price < 0 {
		return errors.Wrap(ErrInvalidInput, "price must not be negative")
	}
	if s.Status != nil && !s.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "slot_status %q", *s.Status)
	}
	return nil
}

// StatusOrDefault is the status the row will have once inserted.
func (s SlotInsert) StatusOrDefault() SlotStatus {
	if s.Status == nil {
		return SlotAvailable
	}
	return *s.Status
}

type SlotUpdate struct {
	ArenaID   *string     `json:"arena_id,omitempty"`
	Date      *string     `json:"date,omitempty"`
	StartTime *string     `json:"start_time,omitempty"`
	EndTime   *string     `json:"end_time,omitempty"`
	Price     *float64    `json:"price,omitempty"`
	Status    *SlotStatus `json:"status,omitempty"`
}

// Validate checks the fields that are present. When both bounds of the
// window are given they must still be ordered.
func (u SlotUpdate) Validate() error {
	if err := requiredPtr("arena_id", u.ArenaID); err != nil {
		return err
	}
	if u.Date != nil {
		if _, err := time.Parse(DateLayout, *u.Date); err != nil {
			return errors.Wrapf(ErrInvalidInput, "date %q must be YYYY-MM-DD", *u.Date)
		}
	}
	var start, end time.Time
	var err error
	if u.StartTime != nil {
		if start, err = time.Parse(ClockLayout, *u.StartTime); err != nil {
			return errors.Wrapf(ErrInvalidInput, "start_time %q must be HH:MM", *u.StartTime)
		}
	}
	if u.EndTime != nil {
		if end, err = time.Parse(ClockLayout, *u.EndTime); err != nil {
			return errors.Wrapf(ErrInvalidInput, "end_time %q must be HH:MM", *u.EndTime)
		}
	}
	if u.StartTime != nil && u.EndTime != nil && !end.After(start) {
		return errors.Wrap(ErrInvalidInput, "end_time must be after start_time")
	}
	if u.Price != nil && *u.Price < 0 {
		return errors.Wrap(ErrInvalidInput, "price must not be negative")
	}
	if u.Status != nil && !u.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "slot_status %q", *u.Status)
	}
	return nil
}

func (u SlotUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "arena_id", u.ArenaID)
	f = appendField(f, "date", u.Date)
	f = appendField(f, "start_time", u.StartTime)
	f = appendField(f, "end_time", u.EndTime)
	f = appendField(f, "price", u.Price)
	if u.Status != nil {
		f = append(f, Field{"status", string(*u.Status)})
	}
	return f
}

// bookings

type BookingRow struct {
	ID        string        `json:"id"`
	PlayerID  string        `json:"player_id"`
	SlotID    string        `json:"slot_id"`
	Status    BookingStatus `json:"status"`
	CreatedAt *time.Time    `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at"`
}

type BookingInsert struct {
	ID       string         `json:"id,omitempty"`
	PlayerID string         `json:"player_id"`
	SlotID   string         `json:"slot_id"`
	Status   *BookingStatus `json:"status,omitempty"`
}

func (b BookingInsert) Validate() error {
	if err := errors.CombineErrors(required("player_id", b.PlayerID), required("slot_id", b.SlotID)); err != nil {
		return err
	}
	if b.Status != nil && !b.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "booking_status %q", *b.Status)
	}
	return nil
}

func (b BookingInsert) StatusOrDefault() BookingStatus {
	if b.Status == nil {
		return BookingPending
	}
	return *b.Status
}

// BookingUpdate rewrites a booking in place. Status changes made through it
// are not checked against the booking lifecycle; use the booking flow for
// that.
type BookingUpdate struct {
	PlayerID *string        `json:"player_id,omitempty"`
	SlotID   *string        `json:"slot_id,omitempty"`
	Status   *BookingStatus `json:"status,omitempty"`
}

func (u BookingUpdate) Validate() error {
	if err := errors.CombineErrors(requiredPtr("player_id", u.PlayerID), requiredPtr("slot_id", u.SlotID)); err != nil {
		return err
	}
	if u.Status != nil && !u.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "booking_status %q", *u.Status)
	}
	return nil
}

func (u BookingUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "player_id", u.PlayerID)
	f = appendField(f, "slot_id", u.SlotID)
	if u.Status != nil {
		f = append(f, Field{"status", string(*u.Status)})
	}
	return f
}

// threads

type ThreadRow struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Sport       string     `json:"sport"`
	Time        time.Time  `json:"time"`
	CreatorID   string     `json:"creator_id"`
	ArenaID     *string    `json:"arena_id"`
	Blocked     *bool      `json:"blocked"`
	Description *string    `json:"description"`
	MaxPlayers  *int       `json:"max_players"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ThreadInsert struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Sport       string    `json:"sport"`
	Time        time.Time `json:"time"`
	CreatorID   string    `json:"creator_id"`
	ArenaID     *string   `json:"arena_id,omitempty"`
	Blocked     *bool     `json:"blocked,omitempty"`
	Description *string   `json:"description,omitempty"`
	MaxPlayers  *int      `json:"max_players,omitempty"`
}

func (t ThreadInsert) Validate() error {
	err := errors.CombineErrors(required("title", t.Title), required("sport", t.Sport))
	err = errors.CombineErrors(err, required("creator_id", t.CreatorID))
	if err != nil {
		return err
	}
	if t.Time.IsZero() {
		return errors.Wrap(ErrInvalidInput, "time is required")
	}
	if t.MaxPlayers != nil && *t.MaxPlayers < 1 {
		return errors.Wrap(ErrInvalidInput, "max_players must be at least 1")
	}
	return nil
}

type ThreadUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Sport       *string    `json:"sport,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
	ArenaID     *string    `json:"arena_id,omitempty"`
	Blocked     *bool      `json:"blocked,omitempty"`
	Description *string    `json:"description,omitempty"`
	MaxPlayers  *int       `json:"max_players,omitempty"`
}

func (u ThreadUpdate) Validate() error {
	if err := requiredPtr("title", u.Title); err != nil {
		return err
	}
	if u.MaxPlayers != nil && *u.MaxPlayers < 1 {
		return errors.Wrap(ErrInvalidInput, "max_players must be at least 1")
	}
	return nil
}

func (u ThreadUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "title", u.Title)
	f = appendField(f, "sport", u.Sport)
	f = appendField(f, "time", u.Time)
	f = appendField(f, "arena_id", u.ArenaID)
	f = appendField(f, "blocked", u.Blocked)
	f = appendField(f, "description", u.Description)
	f = appendField(f, "max_players", u.MaxPlayers)
	return f
}

// thread_interests

type ThreadInterestRow struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	UserID    string         `json:"user_id"`
	Status    InterestStatus `json:"status"`
	CreatedAt *time.Time     `json:"created_at"`
}

type ThreadInterestInsert struct {
	ID       string          `json:"id,omitempty"`
	ThreadID string          `json:"thread_id"`
	UserID   string          `json:"user_id"`
	Status   *InterestStatus `json:"status,omitempty"`
}

func (i ThreadInterestInsert) Validate() error {
	if err := errors.CombineErrors(required("thread_id", i.ThreadID), required("user_id", i.UserID)); err != nil {
		return err
	}
	if i.Status != nil && !i.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "interest_status %q", *i.Status)
	}
	return nil
}

func (i ThreadInterestInsert) StatusOrDefault() InterestStatus {
	if i.Status == nil {
		return InterestPending
	}
	return *i.Status
}

type ThreadInterestUpdate struct {
	ThreadID *string         `json:"thread_id,omitempty"`
	UserID   *string         `json:"user_id,omitempty"`
	Status   *InterestStatus `json:"status,omitempty"`
}

func (u ThreadInterestUpdate) Validate() error {
	if err := errors.CombineErrors(requiredPtr("thread_id", u.ThreadID), requiredPtr("user_id", u.UserID)); err != nil {
		return err
	}
	if u.Status != nil && !u.Status.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "interest_status %q", *u.Status)
	}
	return nil
}

func (u ThreadInterestUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "thread_id", u.ThreadID)
	f = appendField(f, "user_id", u.UserID)
	if u.Status != nil {
		f = append(f, Field{"status", string(*u.Status)})
	}
	return f
}

// messages

type MessageRow struct {
	ID         string     `json:"id"`
	ThreadID   string     `json:"thread_id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	CreatedAt  *time.Time `json:"created_at"`
}

type MessageInsert struct {
	ID         string `json:"id,omitempty"`
	ThreadID   string `json:"thread_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (m MessageInsert) Validate() error {
	err := errors.CombineErrors(required("thread_id", m.ThreadID), required("sender_id", m.SenderID))
	return errors.CombineErrors(err, errors.CombineErrors(required("receiver_id", m.ReceiverID), required("content", m.Content)))
}

type MessageUpdate struct {
	ThreadID   *string `json:"thread_id,omitempty"`
	SenderID   *string `json:"sender_id,omitempty"`
	ReceiverID *string `json:"receiver_id,omitempty"`
	Content    *string `json:"content,omitempty"`
}

func (u MessageUpdate) Validate() error {
	err := errors.CombineErrors(requiredPtr("thread_id", u.ThreadID), requiredPtr("sender_id", u.SenderID))
	return errors.CombineErrors(err, errors.CombineErrors(requiredPtr("receiver_id", u.ReceiverID), requiredPtr("content", u.Content)))
}

func (u MessageUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "thread_id", u.ThreadID)
	f = appendField(f, "sender_id", u.SenderID)
	f = appendField(f, "receiver_id", u.ReceiverID)
	f = appendField(f, "content", u.Content)
	return f
}

// profiles

type ProfileRow struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Status    *string    `json:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// ProfileInsert has a caller-supplied id: profiles share the id of the
// account they describe.
type ProfileInsert struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Status *string `json:"status,omitempty"`
}

func (p ProfileInsert) Validate() error {
	err := errors.CombineErrors(required("id", p.ID), required("email", p.Email))
	err = errors.CombineErrors(err, required("name", p.Name))
	if err != nil {
		return err
	}
	if !strings.Contains(p.Email, "@") {
		return errors.Wrapf(ErrInvalidInput, "email %q", p.Email)
	}
	return nil
}

type ProfileUpdate struct {
	Email  *string `json:"email,omitempty"`
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (u ProfileUpdate) Validate() error {
	if u.Email != nil && !strings.Contains(*u.Email, "@") {
		return errors.Wrapf(ErrInvalidInput, "email %q", *u.Email)
	}
	return requiredPtr("name", u.Name)
}

func (u ProfileUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "email", u.Email)
	f = appendField(f, "name", u.Name)
	f = appendField(f, "status", u.Status)
	return f
}

// user_roles

type UserRoleRow struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Role      AppRole    `json:"role"`
	CreatedAt *time.Time `json:"created_at"`
}

type UserRoleInsert struct {
	ID     string  `json:"id,omitempty"`
	UserID string  `json:"user_id"`
	Role   AppRole `json:"role"`
}

func (u UserRoleInsert) Validate() error {
	if err := required("user_id", u.UserID); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "app_role %q", u.Role)
	}
	return nil
}

type UserRoleUpdate struct {
	UserID *string  `json:"user_id,omitempty"`
	Role   *AppRole `json:"role,omitempty"`
}

func (u UserRoleUpdate) Validate() error {
	if err := requiredPtr("user_id", u.UserID); err != nil {
		return err
	}
	if u.Role != nil && !u.Role.Valid() {
		return errors.Wrapf(ErrInvalidEnum, "app_role %q", *u.Role)
	}
	return nil
}

func (u UserRoleUpdate) Fields() []Field {
	var f []Field
	f = appendField(f, "user_id", u.UserID)
	if u.Role != nil {
		f = append(f, Field{"role", string(*u.Role)})
	}
	return f
}

func appendField[T any](f []Field, column string, v *T) []Field {
	if v == nil {
		return f
	}
	return append(f, Field{Column: column, Value: *v})
}
