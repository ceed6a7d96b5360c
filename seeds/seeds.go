package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/auth"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "Demo123!pass"

const (
	numUsers   = 20
	numMovies  = 50
	numRatings = 400
)

// Setup replaces all data with a deterministic demo catalog, users and ratings.
func Setup(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	rng := rand.New(rand.NewSource(42))
	faker := gofakeit.New(42)

	// Truncate existing data before insert
	log.Info("seed: truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE watchlist, ratings, movies, users RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info("seed: inserting users", zap.Int("count", numUsers))
	if err := seedUsers(ctx, pool, faker, numUsers); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	log.Info("seed: inserting movies", zap.Int("count", numMovies))
	if err := seedMovies(ctx, pool, rng, faker, numMovies); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	log.Info("seed: inserting ratings")
	if err := seedRatings(ctx, pool, rng, numRatings); err != nil {
		return fmt.Errorf("seed ratings: %w", err)
	}

	log.Info("seed: complete")
	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, faker *gofakeit.Faker, n int) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	rows := []string{}
	args := []any{}

	for i := range n {
		email := strings.ToLower(faker.Email())
		for seen[email] {
			email = strings.ToLower(faker.Email())
		}
		seen[email] = true
		createdAt := faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())

		base := i * 4
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, email, faker.Name(), hash, createdAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO users (email, name, password_hash, created_at) VALUES " + strings.Join(rows, ", ")

	_, err = pool.Exec(ctx, query, args...)
	return err
}

var catalog = map[string][]string{
	"Action, Adventure": {
		"Die Hard", "Mad Max: Fury Road", "John Wick", "The Dark Knight",
		"Gladiator", "Top Gun: Maverick", "The Raid", "Mission: Impossible",
		"Casino Royale", "The Avengers",
	},
	"Drama": {
		"The Shawshank Redemption", "Forrest Gump", "The Godfather",
		"Schindler's List", "A Beautiful Mind", "12 Angry Men",
		"Parasite", "Moonlight", "Whiplash", "The Green Mile",
	},
	"Comedy": {
		"Superbad", "The Hangover", "Bridesmaids", "Step Brothers",
		"Anchorman", "Mean Girls", "Borat", "Hot Fuzz",
		"Groundhog Day", "The Grand Budapest Hotel",
	},
	"Crime, Thriller": {
		"Se7en", "Gone Girl", "Zodiac", "Prisoners",
		"Sicario", "No Country for Old Men", "Nightcrawler",
		"Shutter Island", "The Silence of the Lambs", "Oldboy",
	},
	"Science Fiction": {
		"Blade Runner 2049", "Interstellar", "The Matrix", "Arrival",
		"Dune", "Ex Machina", "Alien", "Inception",
		"Edge of Tomorrow", "2001: A Space Odyssey",
	},
}

var genreOrder = []string{"Action, Adventure", "Drama", "Comedy", "Crime, Thriller", "Science Fiction"}

func seedMovies(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, faker *gofakeit.Faker, n int) error {
	languages := []string{"en", "fr", "ko", "ja"}
	languageWeights := []float64{0.7, 0.1, 0.1, 0.1}

	rows := []string{}
	args := []any{}

	for i := range n {
		genres := genreOrder[i%len(genreOrder)]
		titleList := catalog[genres]
		title := titleList[(i/len(genreOrder))%len(titleList)]

		if i >= len(genreOrder)*len(titleList) {
			title = fmt.Sprintf("%s %d", title, i/(len(genreOrder)*len(titleList))+1)
		}

		releaseDate := time.Now().AddDate(-rng.Intn(30), -rng.Intn(12), -rng.Intn(28))
		voteCount := int64(math.Round(powerLawScore(rng) * 20000))
		voteAverage := math.Round((4+rng.Float64()*5)*10) / 10
		popularity := math.Round(powerLawScore(rng)*10000) / 100

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d::date, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args,
			int64(i+1), title, genres, faker.HipsterSentence(),
			releaseDate.Format("2006-01-02"), 80+rng.Intn(100),
			popularity, voteAverage, voteCount, weightedChoice(rng, languages, languageWeights),
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO movies (id, title, genres, overview, release_date, runtime, popularity, vote_average, vote_count, language) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedRatings(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	seen := make(map[[2]int64]bool)

	rows := []string{}
	args := []any{}

	for range n {
		userID := int64(math.Ceil(math.Pow(rng.Float64(), 1.5) * numUsers))
		userID = max(1, min(userID, numUsers))

		movieID := int64(math.Ceil(math.Pow(rng.Float64(), 1.3) * numMovies))
		movieID = max(1, min(movieID, numMovies))

		key := [2]int64{userID, movieID}
		if seen[key] {
			continue
		}
		seen[key] = true

		// Half-star steps in [0.5, 5].
		rating := float64(1+rng.Intn(10)) / 2
		ratedAt := time.Now().AddDate(0, 0, -rng.Intn(180))

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, userID, movieID, rating, ratedAt)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO ratings (user_id, movie_id, rating, rated_at) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func powerLawScore(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	raw := math.Pow(u, 2.0)
	if raw < 0.01 {
		raw = 0.01
	}
	return math.Round(raw*100) / 100
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
