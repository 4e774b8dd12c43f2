// Command seed resets the campground tables and fills them with
// randomized sample data owned by a seed user, for local development.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/deppfellow/yelpcamp/internal/config"
	"github.com/deppfellow/yelpcamp/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const campgroundCount = 50

var descriptors = []string{
	"Forest", "Ancient", "Petrified", "Roaring", "Cascade", "Tumbling",
	"Silent", "Redwood", "Bullfrog", "Maple", "Misty", "Elk", "Grizzly",
	"Ocean", "Sea", "Sky", "Dusty", "Diamond",
}

var places = []string{
	"Flats", "Village", "Canyon", "Pond", "Group Camp", "Horse Camp",
	"Ghost Town", "Camp", "Dispersed Camp", "Backcountry", "River",
	"Creek", "Creekside", "Bay", "Spring", "Bayshore", "Sands",
	"Mule Camp", "Hunting Camp", "Cliffs", "Hollow",
}

var cities = []struct {
	City  string
	State string
}{
	{"Portland", "Oregon"},
	{"Bend", "Oregon"},
	{"Boulder", "Colorado"},
	{"Durango", "Colorado"},
	{"Moab", "Utah"},
	{"Sedona", "Arizona"},
	{"Asheville", "North Carolina"},
	{"Bozeman", "Montana"},
	{"Missoula", "Montana"},
	{"Jackson", "Wyoming"},
	{"Taos", "New Mexico"},
	{"Truckee", "California"},
	{"Bishop", "California"},
	{"Leavenworth", "Washington"},
	{"Stowe", "Vermont"},
	{"Bar Harbor", "Maine"},
}

const sampleDescription = "Lorem ipsum dolor sit, amet consectetur adipisicing elit. " +
	"Dicta, at suscipit! Tempora suscipit, iure assumenda enim nulla similique provident in!"

const sampleImageURL = "https://images.unsplash.com/photo-1504280390367-361c6d9f38f4"

func sample(values []string) string {
	return values[rand.Intn(len(values))]
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	if err := seed(ctx, cfg, &log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	log.Info().Int("campgrounds", campgroundCount).Msg("database seeded")
}

func seed(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	conn, err := pgx.Connect(ctx, database.DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	// Reviews and images reference campgrounds, so they go first.
	for _, table := range []string{"reviews", "campground_images", "campgrounds"} {
		if _, err := conn.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	userID, err := seedUser(ctx, conn)
	if err != nil {
		return err
	}

	for i := 0; i < campgroundCount; i++ {
		city := cities[rand.Intn(len(cities))]
		title := sample(descriptors) + " " + sample(places)
		location := city.City + ", " + city.State
		price := float64(rand.Intn(20) + 10)

		var campgroundID string
		err := conn.QueryRow(ctx,
			`INSERT INTO campgrounds (title, price, description, location, author_id)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			title, price, sampleDescription, location, userID,
		).Scan(&campgroundID)
		if err != nil {
			return fmt.Errorf("failed to insert campground: %w", err)
		}

		_, err = conn.Exec(ctx,
			`INSERT INTO campground_images (campground_id, url, filename, position)
			 VALUES ($1, $2, $3, 0)`,
			campgroundID, sampleImageURL, fmt.Sprintf("seed/campground-%d", i),
		)
		if err != nil {
			return fmt.Errorf("failed to insert campground image: %w", err)
		}
	}

	return nil
}

// seedUser returns the id of the "camper" account, creating it with a
// default password on first run.
func seedUser(ctx context.Context, conn *pgx.Conn) (string, error) {
	var id string
	err := conn.QueryRow(ctx, `SELECT id FROM users WHERE username = 'camper'`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return "", fmt.Errorf("failed to look up seed user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("campground"), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	err = conn.QueryRow(ctx,
		`INSERT INTO users (email, username, password_hash)
		 VALUES ('camper@example.com', 'camper', $1) RETURNING id`,
		string(hash),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create seed user: %w", err)
	}

	return id, nil
}
