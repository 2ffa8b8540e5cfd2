package clients

import (
	"context"

	"github.com/fridaygt/fridaygt/common/listctl"
	"github.com/google/uuid"
)

// MemberSaver persists a race roster order for a list controller
func MemberSaver(api *APIClient, userID string, raceID uuid.UUID) listctl.Saver {
	return listctl.SaverFunc(func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
		members, err := api.ReorderMembers(WithUserID(ctx, userID), raceID, ids)
		if err != nil {
			return nil, err
		}
		out := make([]uuid.UUID, len(members))
		for i, m := range members {
			out[i] = m.ID
		}
		return out, nil
	})
}

// RaceSaver persists a run list order for a list controller
func RaceSaver(api *APIClient, userID string, runListID uuid.UUID) listctl.Saver {
	return listctl.SaverFunc(func(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
		races, err := api.ReorderRaces(WithUserID(ctx, userID), runListID, ids)
		if err != nil {
			return nil, err
		}
		out := make([]uuid.UUID, len(races))
		for i, r := range races {
			out[i] = r.ID
		}
		return out, nil
	})
}
