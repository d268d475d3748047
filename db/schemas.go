package db

var schema = `
CREATE TABLE IF NOT EXISTS order_attendees (
	order_id VARCHAR(64) PRIMARY KEY,
	ticket_count INT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_ticket_fields (
	order_id VARCHAR(64) NOT NULL REFERENCES order_attendees (order_id) ON DELETE CASCADE,
	field_id VARCHAR(64) NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (order_id, field_id)
);

CREATE TABLE IF NOT EXISTS read_model_order_attendees (
	order_id VARCHAR(64) PRIMARY KEY,
	payload JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMP NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
