package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/host"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/units"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

type SensorRequest struct {
	Name     string `json:"name" zog:"name"`
	Folder   string `json:"folder" zog:"folder"`
	Position string `json:"position" zog:"position"`
	Unit     string `json:"unit" zog:"unit"`
	Comment  string `json:"comment" zog:"comment"`
}

var sensorRequestSchema = z.Struct(z.Shape{
	"name":     z.String().Required(),
	"folder":   z.String().Required(),
	"position": z.String().Optional(),
	"unit":     z.String().Required(),
	"comment":  z.String().Optional(),
})

func (rs *RestfulServer) RegisterSensor(c *gin.Context) {
	var req SensorRequest
	if err := sensorRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	sensor, err := rs.Iot.Sensor.RegisterSensor(c.Request.Context(), &models.Sensor{
		Name:     req.Name,
		Folder:   req.Folder,
		Position: req.Position,
		Unit:     models.Unit(req.Unit),
		Comment:  req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sensor_id": sensor.ID, "sensor": sensor})
}

func (rs *RestfulServer) ListSensors(c *gin.Context) {
	sensors, err := rs.Iot.Sensor.ListSensors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if sensors == nil {
		sensors = []models.Sensor{}
	}
	c.JSON(http.StatusOK, gin.H{"sensor": sensors})
}

func (rs *RestfulServer) GetSensor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sensor, err := rs.Iot.Sensor.GetSensor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sensor": sensor})
}

func (rs *RestfulServer) DeleteSensor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rs.Iot.Sensor.DeleteSensor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	rs.RateLimiterStore.Forget(id)
	c.JSON(http.StatusOK, gin.H{"sensor_id": id})
}

func (rs *RestfulServer) StartPolling(c *gin.Context) {
	seconds, err := strconv.Atoi(c.Param("seconds"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seconds must be an integer"})
		return
	}
	state, err := rs.Sampler.Start(seconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (rs *RestfulServer) StopPolling(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Sampler.Stop())
}

func (rs *RestfulServer) PollingStatus(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Sampler.State())
}

func (rs *RestfulServer) ReadNow(c *gin.Context) {
	id, ok := parseID(c, "sensor")
	if !ok {
		return
	}

	if !rs.CheckSensorLimiter(id) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	reading, err := rs.Sampler.ReadNow(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sensor":      reading.Sensor,
		"temperature": reading.Value,
		"unit":        reading.Unit,
		"celsius":     reading.Celsius,
		"fahrenheit":  reading.Fahrenheit,
		"read_at":     reading.ReadAt,
	})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate" zog:"rate"`
	Burst int     `json:"burst" zog:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	id, ok := parseID(c, "sensor")
	if !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(id, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

type SampleQueryRequest struct {
	Sensor    int    `zog:"sensor"`
	StartDate string `zog:"start_date"`
	EndDate   string `zog:"end_date"`
	Limit     int    `zog:"limit"`
}

var sampleQuerySchema = z.Struct(z.Shape{
	"sensor":    z.Int().Optional(),
	"startDate": z.String().Optional(),
	"endDate":   z.String().Optional(),
	"limit":     z.Int().Optional(),
})

// SampleResponse reports a stored Celsius sample in its sensor's unit.
type SampleResponse struct {
	ID        uint        `json:"id"`
	SensorID  uint        `json:"sensor_id"`
	Value     float64     `json:"value"`
	Unit      models.Unit `json:"unit"`
	Celsius   float64     `json:"celsius"`
	Timestamp time.Time   `json:"timestamp"`
	Comment   string      `json:"comment"`
}

// parseDate accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseDate(field, value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, &common.ConfigError{Field: field, Value: value, Reason: "expected RFC 3339 or YYYY-MM-DD"}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (rs *RestfulServer) GetSamples(c *gin.Context) {
	ctx := c.Request.Context()

	var req SampleQueryRequest
	if err := sampleQuerySchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.Sensor < 0 || req.Limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sensor and limit must not be negative"})
		return
	}

	from, err := parseDate("start_date", req.StartDate, false)
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDate("end_date", req.EndDate, true)
	if err != nil {
		respondError(c, err)
		return
	}

	samples, err := rs.Iot.Sample.ListSamples(ctx, models.SampleQuery{
		SensorID: uint(req.Sensor),
		From:     from,
		To:       to,
		Limit:    req.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	sensors, err := rs.Iot.Sensor.ListSensors(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	unitOf := make(map[uint]models.Unit, len(sensors))
	for _, s := range sensors {
		unitOf[s.ID] = s.Unit
	}

	resp := common.Mapper(samples, func(s models.TemperatureSample) SampleResponse {
		// deleted sensors keep their samples, reported in Celsius
		unit, ok := unitOf[s.SensorID]
		if !ok {
			unit = models.UnitCelsius
		}
		return SampleResponse{
			ID:        s.ID,
			SensorID:  s.SensorID,
			Value:     units.InUnit(unit, s.Value),
			Unit:      unit,
			Celsius:   s.Value,
			Timestamp: s.Timestamp,
			Comment:   s.Comment,
		}
	})

	c.JSON(http.StatusOK, resp)
}

func (rs *RestfulServer) DeleteSample(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rs.Iot.Sample.DeleteSample(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

type AlertQueryRequest struct {
	Sensor int `zog:"sensor"`
}

var alertQuerySchema = z.Struct(z.Shape{
	"sensor": z.Int().Optional(),
})

func (rs *RestfulServer) GetAlerts(c *gin.Context) {
	var req AlertQueryRequest
	if err := alertQuerySchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.Sensor < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sensor must not be negative"})
		return
	}

	alerts, err := rs.Iot.Alert.GetSensorAlerts(c.Request.Context(), uint(req.Sensor))
	if err != nil {
		respondError(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}

	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetDevices(c *gin.Context) {
	devices, err := w1.Discover(rs.DevicesDir)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if devices == nil {
		devices = []w1.Device{}
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	resp := gin.H{"status": "ok"}

	if rs.Sampler != nil {
		resp["polling"] = rs.Sampler.State()
	}

	hostInfo := rs.HostInfo
	if hostInfo == nil {
		hostInfo = host.InfoWithContext
	}
	if info, err := hostInfo(c.Request.Context()); err == nil {
		resp["host"] = gin.H{
			"hostname":       info.Hostname,
			"platform":       info.Platform,
			"kernel":         info.KernelVersion,
			"uptime_seconds": info.Uptime,
		}
	}

	c.JSON(http.StatusOK, resp)
}
