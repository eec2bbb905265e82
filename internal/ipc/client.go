package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"
)

const (
	dialTimeout = 3 * time.Second
	rwTimeout   = 10 * time.Second
)

// Send delivers one request to the running instance and waits for the
// response. An empty endpoint uses DefaultEndpoint().
func Send(endpoint string, req Request) (Response, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint()
	}

	conn, err := dial(endpoint, dialTimeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(rwTimeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	frame, err := encodeFrame(req)
	if err != nil {
		return Response{}, err
	}
	if _, err := conn.Write(frame); err != nil {
		return Response{}, err
	}

	line, err := bufio.NewReaderSize(conn, maxFrameBytes+1).ReadBytes('\n')
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}
