package engine

import "github.com/rukunhub/recokit/core"

// AttendanceRecord 是宿主平台的活动参与记录（签到历史）。
type AttendanceRecord struct {
	WargaID    string // 居民 ID
	KegiatanID string // 活动 ID
	Attended   bool   // 是否出席
}

// InteractionsFromAttendance 把参与记录翻译为通用交互格式：
// 出席折算为 0-5 评分刻度（出席 = 5，缺席 = 0）。
// 这是纯数据映射，属于调用方的适配层，不进入引擎核心逻辑。
func InteractionsFromAttendance(records []AttendanceRecord) []core.Interaction {
	out := make([]core.Interaction, 0, len(records))
	for _, r := range records {
		rating := 0.0
		if r.Attended {
			rating = 5.0
		}
		out = append(out, core.Interaction{
			UserID: r.WargaID,
			ItemID: r.KegiatanID,
			Rating: rating,
		})
	}
	return out
}
