package server

import (
	"testing"
	"time"
)

func TestWebLoggerBasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan)

	logger.Printf("%s\n", "Test log message")

	select {
	case msg := <-messageChan:
		if msg.Message != "Test log message\n" {
			t.Errorf("Expected message 'Test log message\\n', got '%s'", msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}
}

func TestWebLoggerMultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan)

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	timeout := time.After(200 * time.Millisecond)
	for i, expected := range messages {
		select {
		case msg := <-messageChan:
			if msg.Message != expected+"\n" {
				t.Errorf("Message %d: expected '%s', got '%s'", i, expected+"\n", msg.Message)
			}
		case <-timeout:
			t.Fatalf("Timeout waiting for message %d", i+1)
		}
	}
}

func TestWebLoggerChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger(messageChan)

	logger.Printf("Message 1\n")

	// These must not block even though nothing drains the channel
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	select {
	case msg := <-messageChan:
		if msg.Message != "Message 1\n" {
			t.Errorf("Expected first message to survive, got '%s'", msg.Message)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for first message")
	}
}

func TestWebLoggerNilChannel(t *testing.T) {
	logger := NewWebLogger(nil)

	// Must not panic without a console consumer
	logger.Printf("Test message with nil channel\n")
}

func TestWebLoggerFormattedMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger(messageChan)

	logger.Printf("Pass %d: target %d samples per pixel\n", 3, 16)

	select {
	case msg := <-messageChan:
		expected := "Pass 3: target 16 samples per pixel\n"
		if msg.Message != expected {
			t.Errorf("Expected formatted message '%s', got '%s'", expected, msg.Message)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for formatted message")
	}
}
