package recurrence

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan là kết quả đối chiếu chuỗi hiện có với tập ngày mới sau khi rule đổi.
// Service layer thực thi plan: tạo occurrence mới từ template, xoá hoặc cancel
// các occurrence mồ côi.
type Plan struct {
	ToCreate []int64              // Start (UnixMilli) của các occurrence cần tạo mới
	ToDelete []primitive.ObjectID // Occurrence không còn trong rule mới và chưa được dùng
	ToCancel []primitive.ObjectID // Occurrence không còn trong rule mới nhưng đã có Planning gắn vào
}

// Reconcile đối chiếu các occurrence hiện có (D0) với tập ngày sinh từ rule
// mới (D1), so theo ngày lịch trong loc:
//   - ngày có trong D0 nhưng không còn trong D1: xoá, hoặc cancel nếu
//     occurrence đã có Planning đang dùng (inUse);
//   - ngày có trong D1 nhưng chưa có trong D0: tạo mới;
//   - hai occurrence rơi vào cùng một ngày: giữ cái sớm hơn, xoá cái muộn hơn.
func Reconcile(existing []Occurrence, newStarts []time.Time, loc *time.Location, inUse map[primitive.ObjectID]bool) Plan {
	if loc == nil {
		loc = time.UTC
	}

	var plan Plan

	// Gom occurrence hiện có theo ngày, trong mỗi ngày sắp theo Start tăng dần
	existingByDay := make(map[int64][]Occurrence)
	for _, occ := range existing {
		key := dayKey(time.UnixMilli(occ.Start).In(loc))
		existingByDay[key] = append(existingByDay[key], occ)
	}
	for _, occs := range existingByDay {
		sortByStart(occs)
	}

	newByDay := make(map[int64]time.Time, len(newStarts))
	for _, start := range newStarts {
		key := dayKey(start.In(loc))
		if _, seen := newByDay[key]; !seen {
			newByDay[key] = start
		}
	}

	for key, occs := range existingByDay {
		_, keep := newByDay[key]
		for i, occ := range occs {
			if keep {
				// Ngày còn trong rule mới: giữ occurrence sớm nhất, các bản
				// trùng ngày phía sau bị xoá
				if i == 0 {
					continue
				}
				plan.ToDelete = append(plan.ToDelete, occ.ID)
				continue
			}
			// Ngày mồ côi: mọi occurrence đang có Planning gắn vào đều phải
			// cancel, kể cả bản trùng ngày muộn hơn
			if inUse[occ.ID] {
				plan.ToCancel = append(plan.ToCancel, occ.ID)
				continue
			}
			plan.ToDelete = append(plan.ToDelete, occ.ID)
		}
	}

	for key, start := range newByDay {
		if _, exists := existingByDay[key]; exists {
			continue
		}
		plan.ToCreate = append(plan.ToCreate, start.UnixMilli())
	}
	sort.Slice(plan.ToCreate, func(i, j int) bool { return plan.ToCreate[i] < plan.ToCreate[j] })

	return plan
}

func dayKey(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}
