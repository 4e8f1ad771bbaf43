package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/delivize/delivize/internal/clock"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/operatinghours/domain"
)

type service struct {
	repo  domain.Repository
	menus menudomain.Repository
	node  *snowflake.Node
	clock clock.Clock
}

func New(repo domain.Repository, menus menudomain.Repository, node *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{repo: repo, menus: menus, node: node, clock: clk}
}

func (s *service) Replace(ctx context.Context, ownerID, menuID snowflake.ID, intervals []domain.IntervalRequest) ([]domain.OperatingHour, error) {
	menu, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if menu.OwnerUserID != ownerID {
		return nil, menudomain.ErrNotOwner
	}

	hours := make([]domain.OperatingHour, 0, len(intervals))
	for _, interval := range intervals {
		if interval.Weekday < 0 || interval.Weekday > 6 {
			return nil, domain.ErrInvalidWeekday
		}
		opens, err := parseMinutes(interval.OpensAt)
		if err != nil {
			return nil, domain.ErrInvalidInterval
		}
		closes, err := parseMinutes(interval.ClosesAt)
		if err != nil {
			return nil, domain.ErrInvalidInterval
		}
		if opens == closes {
			return nil, domain.ErrInvalidInterval
		}
		hours = append(hours, domain.OperatingHour{
			ID:       s.node.Generate(),
			MenuID:   menuID,
			Weekday:  interval.Weekday,
			OpensAt:  interval.OpensAt,
			ClosesAt: interval.ClosesAt,
		})
	}

	if err := s.repo.ReplaceForMenu(ctx, menuID, hours); err != nil {
		return nil, err
	}
	return s.repo.ListForMenu(ctx, menuID)
}

func (s *service) List(ctx context.Context, menuID snowflake.ID) ([]domain.OperatingHour, error) {
	return s.repo.ListForMenu(ctx, menuID)
}

func (s *service) IsOpenNow(ctx context.Context, menuID snowflake.ID) (bool, error) {
	menu, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return false, err
	}
	location, err := time.LoadLocation(menu.TimezoneName)
	if err != nil {
		location = time.UTC
	}

	hours, err := s.repo.ListForMenu(ctx, menuID)
	if err != nil {
		return false, err
	}

	now := s.clock.Now().In(location)
	weekday := int(now.Weekday())
	yesterday := (weekday + 6) % 7
	minutes := now.Hour()*60 + now.Minute()

	for _, hour := range hours {
		opens, err := parseMinutes(hour.OpensAt)
		if err != nil {
			continue
		}
		closes, err := parseMinutes(hour.ClosesAt)
		if err != nil {
			continue
		}
		if closes > opens {
			if hour.Weekday == weekday && minutes >= opens && minutes < closes {
				return true, nil
			}
			continue
		}
		// Interval crosses midnight: the open side belongs to the interval's
		// weekday, the close side to the following day.
		if hour.Weekday == weekday && minutes >= opens {
			return true, nil
		}
		if hour.Weekday == yesterday && minutes < closes {
			return true, nil
		}
	}
	return false, nil
}

func parseMinutes(value string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("out of range: %s", value)
	}
	return h*60 + m, nil
}
