package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crypto-radar/internal/export"
	"crypto-radar/internal/query"
	"crypto-radar/internal/store"

	"github.com/gin-gonic/gin"
)

// APIHandler adapts the snapshot store and query layer to JSON routes.
// 纯读路径，对存储的并发访问不需要额外加锁。
type APIHandler struct {
	store *store.Store
	query *query.Service
	hub   *Hub
}

func SetupRoutes(r *gin.RouterGroup, st *store.Store, hub *Hub) *APIHandler {
	handler := &APIHandler{
		store: st,
		query: query.NewService(st),
		hub:   hub,
	}

	r.GET("/latest", handler.GetLatest)
	r.GET("/query", handler.QueryByTime)
	r.GET("/chart", handler.Chart)
	r.GET("/coin/:symbol/history", handler.AssetHistory)
	r.GET("/signal-stats/query", handler.SignalStats)
	r.GET("/stats", handler.DBStats)
	r.GET("/export", handler.ExportDay)

	return handler
}

// GetLatest 最新快照及其币种明细
func (h *APIHandler) GetLatest(c *gin.Context) {
	snap, assets, err := h.store.GetLatest()
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "数据库中暂无数据"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap, "coins": assets})
}

// QueryByTime 按精确时间或时间前缀查询（如 "2025-12-06 14"）
func (h *APIHandler) QueryByTime(c *gin.Context) {
	queryTime := c.Query("time")
	if queryTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供查询时间"})
		return
	}
	snap, assets, err := h.store.GetByTimestamp(queryTime)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未找到 %s 的数据", queryTime)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap, "coins": assets})
}

// Chart 趋势图数据：date= 查某天，page= 查12小时分页窗口
func (h *APIHandler) Chart(c *gin.Context) {
	if pageStr := c.Query("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page参数无效"})
			return
		}
		result, err := h.query.ChartPage(page)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "无数据"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	series, err := h.query.ChartSeries(c.Query("date"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "无数据"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, series)
}

// AssetHistory 单币种历史，from/to 可选
func (h *APIHandler) AssetHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	records, err := h.store.GetAssetHistory(symbol, c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "count": len(records), "data": records})
}

// SignalStats 信号流历史查询
func (h *APIHandler) SignalStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供date参数"})
		return
	}
	stats, err := h.store.ListSignalStatsByDate(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(stats), "data": stats})
}

// DBStats 数据库概览
func (h *APIHandler) DBStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportDay 导出某天快照为xlsx
func (h *APIHandler) ExportDay(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请提供date参数"})
		return
	}
	buf, err := export.DailyWorkbook(h.store, date)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("未找到 %s 的数据", date)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	filename := fmt.Sprintf("snapshots_%s.xlsx", date)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
