package recurrence

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Occurrence là một lát cắt gọn của Event dùng cho tính toán chuỗi lặp:
// chỉ cần ID và khoảng thời gian, không kéo theo cả model Event.
type Occurrence struct {
	ID    primitive.ObjectID
	Start int64 // UnixMilli
	End   int64 // UnixMilli
}

// Timeline chia các occurrence anh em (cùng recurrence_id, khác occurrence
// đang được chọn) thành ba nhóm rời nhau, mỗi nhóm sắp xếp tăng dần theo Start.
type Timeline struct {
	Historic []Occurrence // end < now
	Past     []Occurrence // đã tới hoặc đang diễn ra, trước occurrence được chọn
	Future   []Occurrence // start > selected.Start
}

// GetRecurringTimeline phân hoạch series quanh occurrence được chọn.
// Quy tắc: kết thúc trước now → Historic; bắt đầu sau selected → Future;
// còn lại → Past. Occurrence được chọn (so theo ID) không nằm trong nhóm nào.
// Phân hoạch này quyết định "update future" và "update all" chạm tới những
// occurrence nào.
func GetRecurringTimeline(selected Occurrence, series []Occurrence, now int64) Timeline {
	var tl Timeline
	for _, occ := range series {
		if occ.ID == selected.ID {
			continue
		}
		switch {
		case occ.End < now:
			tl.Historic = append(tl.Historic, occ)
		case occ.Start > selected.Start:
			tl.Future = append(tl.Future, occ)
		default:
			tl.Past = append(tl.Past, occ)
		}
	}
	sortByStart(tl.Historic)
	sortByStart(tl.Past)
	sortByStart(tl.Future)
	return tl
}

// Elapsed trả về số occurrence đã trôi qua (historic + past), dùng để trừ
// count khi regenerate rule count-based.
func (tl Timeline) Elapsed() int {
	return len(tl.Historic) + len(tl.Past)
}

func sortByStart(occs []Occurrence) {
	sort.Slice(occs, func(i, j int) bool {
		if occs[i].Start == occs[j].Start {
			return occs[i].ID.Hex() < occs[j].ID.Hex()
		}
		return occs[i].Start < occs[j].Start
	})
}
