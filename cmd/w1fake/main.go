// w1fake lays out a fake w1 device tree with drifting temperatures, and can
// register the devices with a running server and hammer its read endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

var (
	devicesDir   = flag.String("dir", "./fake-w1", "directory to write device folders into")
	maxDevices   = flag.Int("devices", 8, "number of fake sensors")
	step         = flag.Duration("step", time.Second, "how often temperatures drift")
	crcFailRate  = flag.Float64("crc-fail", 0.02, "fraction of writes with a failed crc")
	httpHostPort = flag.String("http", "", "register devices with the server at host:port, empty to skip")
	token        = flag.String("token", "", "bearer token for the server, if auth is on")
	readLoad     = flag.Int("reads", 0, "read-now calls per device to fire after registering")
)

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

type fakeDevice struct {
	id      string
	celsius float64
}

func main() {
	flag.Parse()

	devices := make([]*fakeDevice, *maxDevices)
	for i := range devices {
		devices[i] = &fakeDevice{
			id:      "28-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
			celsius: rndFloat64(18.0, 26.0, 3),
		}
		writeDevice(devices[i])
	}
	fmt.Printf("wrote %v devices under %s\n", len(devices), *devicesDir)

	if *httpHostPort != "" {
		sensorIDs := registerAll(devices)
		if *readLoad > 0 {
			readNowLoad(sensorIDs)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(*step)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			fmt.Printf("\n")
			return
		case <-ticker.C:
			for _, d := range devices {
				d.celsius = math.Max(-55, math.Min(125, d.celsius+rndFloat64(-0.5, 0.5, 3)))
				writeDevice(d)
			}
			fmt.Printf("\rdrifted %v devices, first at %.3f C", len(devices), devices[0].celsius)
		}
	}
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func writeDevice(d *fakeDevice) {
	valid := rnd.Float64() >= *crcFailRate
	raw := int64(math.Round(d.celsius * 1000))
	if _, err := w1.WriteSlave(*devicesDir, d.id, w1.FormatSlave(raw, valid)); err != nil {
		log.Fatal("Failed to write device: ", err)
	}
}

func newRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req, err := http.NewRequest(method, fmt.Sprintf("http://%s%s", *httpHostPort, path), &buf)
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if *token != "" {
		req.Header.Set("Authorization", "Bearer "+*token)
	}
	return req
}

func registerAll(devices []*fakeDevice) []uint {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", *httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	ids := make([]uint, 0, len(devices))
	for i, d := range devices {
		unit := "C"
		if i%2 == 1 {
			unit = "F"
		}
		payload := map[string]string{
			"name":     fmt.Sprintf("fake-%d", i),
			"folder":   d.id,
			"position": "bench",
			"unit":     unit,
		}
		resp, err := http.DefaultClient.Do(newRequest(http.MethodPost, "/temperature/sensor", payload))
		if err != nil {
			log.Fatal("Failed to register sensor: ", err)
		}
		var body struct {
			SensorID uint `json:"sensor_id"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusCreated {
			log.Fatalf("register %s: status %v, err %v", d.id, resp.StatusCode, err)
		}
		ids = append(ids, body.SensorID)
	}
	fmt.Printf("registered %v sensors\n", len(ids))
	return ids
}

func readNowLoad(sensorIDs []uint) {
	var (
		mu       sync.Mutex
		statuses = map[int]int{}
	)

	startTime := time.Now()
	wg := sync.WaitGroup{}
	for _, id := range sensorIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range *readLoad {
				resp, err := http.DefaultClient.Do(newRequest(http.MethodGet, fmt.Sprintf("/temperature/read/%d", id), nil))
				if err != nil {
					fmt.Printf("\nerror: %v\n", err)
					continue
				}
				resp.Body.Close()
				mu.Lock()
				statuses[resp.StatusCode]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	usedTime := time.Since(startTime)

	total := len(sensorIDs) * *readLoad
	fmt.Printf(
		"did %v reads: used time=%v seconds, throughput=%v action/second, statuses=%v\n",
		total, usedTime.Seconds(), float64(total)/usedTime.Seconds(), statuses,
	)
}
