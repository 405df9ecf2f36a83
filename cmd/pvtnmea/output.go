// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	m "github.com/mkhts/pvtnmea"
)

// nopCloser - WriteCloser that ignores close operations
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open the NMEA output. Each Write receives all sentences of one epoch.
func openOutput(cfg *OutputConfig) (io.WriteCloser, error) {
	switch cfg.Type {
	case outStdout:
		return &nopCloser{os.Stdout}, nil
	case outFile:
		f, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, nil
	case outSerial:
		return openSerial(&cfg.Serial)
	case outMQTT:
		return openMQTT(&cfg.MQTT)
	default:
		return nil, fmt.Errorf("unknown output type %q", cfg.Type)
	}
}

func openSerial(cfg *SerialConfig) (io.WriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              cfg.Port,
		BaudRate:              uint(cfg.Baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	m.PrintD(1, "serial port opened on %s at %d baud\n", opts.PortName, opts.BaudRate)
	return port, nil
}

// Publishes each epoch as one MQTT message
type mqttWriter struct {
	client mqtt.Client
	topic  string
}

func openMQTT(cfg *MQTTConfig) (io.WriteCloser, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Broker, token.Error())
	}
	m.PrintD(1, "connected to MQTT broker at %s\n", cfg.Broker)
	return &mqttWriter{client: client, topic: cfg.Topic}, nil
}

func (w *mqttWriter) Write(p []byte) (int, error) {
	payload := make([]byte, len(p))
	copy(payload, p)
	token := w.client.Publish(w.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return 0, fmt.Errorf("publish to %s timed out", w.topic)
	}
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *mqttWriter) Close() error {
	w.client.Disconnect(250)
	return nil
}
