package service

import (
	"sort"

	"GreenArmy/internal/model"
	"GreenArmy/internal/pkg"
)

// SortByProximity 写入 distance(km) 并按距离升序稳定排序
func SortByProximity(events []model.EventSummary, lat, lng float64) {
	for i := range events {
		d := pkg.Haversine(lat, lng, events[i].Lat, events[i].Lng)
		events[i].Distance = &d
	}
	sort.SliceStable(events, func(i, j int) bool {
		return *events[i].Distance < *events[j].Distance
	})
}
