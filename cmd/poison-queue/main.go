package main

import (
	"fmt"
	"os"

	attendeesMessage "attendees/message"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newQueue(c *cli.Context) (*Queue, func() error) {
	client := attendeesMessage.NewRedisClient(c.String("redis-addr"))
	logger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))

	return NewQueue(client, c.String("topic"), attendeesMessage.NewRedisPublisher(client, logger)), client.Close
}

func main() {
	log.Init(logrus.WarnLevel)

	app := &cli.App{
		Name:  "poison-queue",
		Usage: "Manage messages parked in the poison queue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "redis-addr",
				EnvVars: []string{"REDIS_ADDR"},
				Value:   "localhost:6379",
			},
			&cli.StringFlag{
				Name:  "topic",
				Value: attendeesMessage.PoisonQueueTopic,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "preview messages",
				Action: func(c *cli.Context) error {
					queue, closeQueue := newQueue(c)
					defer closeQueue()

					messages, err := queue.Preview(c.Context)
					if err != nil {
						return err
					}

					for _, m := range messages {
						fmt.Printf("%v\t%v\t%v\t%v\n", m.ID, m.OriginalTopic, m.Handler, m.Reason)
					}

					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<message_id>",
				Usage:     "remove message",
				Action: func(c *cli.Context) error {
					queue, closeQueue := newQueue(c)
					defer closeQueue()

					return queue.Remove(c.Context, c.Args().First())
				},
			},
			{
				Name:      "requeue",
				ArgsUsage: "<message_id>",
				Usage:     "requeue message",
				Action: func(c *cli.Context) error {
					queue, closeQueue := newQueue(c)
					defer closeQueue()

					return queue.Requeue(c.Context, c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("poison-queue failed")
	}
}
