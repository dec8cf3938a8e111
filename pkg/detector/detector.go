// Package detector is the client for the external object-detection/tracking
// sidecar. The model itself is opaque: frames go out, boxes with labels and
// persistent track ids come back.
package detector

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"ProjectQuake/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/gorilla/websocket"
)

type IDetector interface {
	DetectObjects(frame []byte) ([]entity.TrackedObject, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type trackerClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewTrackerClient dials the tracker service in the background; if the
// service is down at boot, connection is retried on demand per frame.
func NewTrackerClient() IDetector {
	client := &trackerClient{
		readTimeout:  10 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go client.connectInBackground()

	return client
}

func (c *trackerClient) connectInBackground() {
	if err := c.Reconnect(); err != nil {
		log.Printf("Initial connection to tracker service failed: %v. Will retry on demand.", err)
	} else {
		log.Printf("Successfully connected to tracker service")
	}
}

func (c *trackerClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *trackerClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := trackerURL()

	log.Printf("Connecting to tracker service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	return nil
}

func (c *trackerClient) getConnection() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("tracker connection not established")
	}
	return c.conn, nil
}

// DetectObjects sends one encoded frame and blocks for the tracker's answer.
// The tracker keeps identity state across frames, so the same physical object
// comes back with the same track id on consecutive calls.
func (c *trackerClient) DetectObjects(frame []byte) ([]entity.TrackedObject, error) {
	conn, err := c.getConnection()
	if err != nil {
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to tracker service: %w", err)
		}
		conn, err = c.getConnection()
		if err != nil {
			return nil, err
		}
	}

	base64Frame := base64.StdEncoding.EncodeToString(frame)

	c.mu.Lock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(base64Frame)); err != nil {
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending frame: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))

	c.mu.Unlock()

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.mu.Lock()
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading tracker response: %w", err)
	}

	c.mu.Lock()
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	var result entity.TrackerResult
	if err := jsoniter.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling tracker response: %w", err)
	}

	return result.Objects, nil
}

func (c *trackerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func trackerURL() string {
	url := os.Getenv("AI_TRACKER_URL")
	if url == "" {
		url = "ws://localhost:8000/track/ws"
	}
	return url
}
