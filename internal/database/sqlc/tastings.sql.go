package sqldb

import "context"

// Tasting mirrors one row of the tastings table.
type Tasting struct {
	Position        int64
	SessionNumber   string
	TastingDate     string
	Taster          string
	CoffeeName      string
	RoastLevel      string
	BrewMethod      string
	ShopName        string
	ShopAddress     string
	RoasterLocation string
	BeanOrigin      string
	Acidity         int64
	Sweetness       int64
	Body            int64
	OverallRating   int64
	FlavorNotes     string
	TastingNotes    string
}

const listTastings = `SELECT position, session_number, tasting_date, taster, coffee_name, roast_level, brew_method,
       shop_name, shop_address, roaster_location, bean_origin,
       acidity, sweetness, body, overall_rating, flavor_notes, tasting_notes
FROM tastings
ORDER BY position`

func (q *Queries) ListTastings(ctx context.Context) ([]Tasting, error) {
	rows, err := q.db.QueryContext(ctx, listTastings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tasting
	for rows.Next() {
		var i Tasting
		if err := rows.Scan(
			&i.Position,
			&i.SessionNumber,
			&i.TastingDate,
			&i.Taster,
			&i.CoffeeName,
			&i.RoastLevel,
			&i.BrewMethod,
			&i.ShopName,
			&i.ShopAddress,
			&i.RoasterLocation,
			&i.BeanOrigin,
			&i.Acidity,
			&i.Sweetness,
			&i.Body,
			&i.OverallRating,
			&i.FlavorNotes,
			&i.TastingNotes,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertTasting = `INSERT INTO tastings (
    position, session_number, tasting_date, taster, coffee_name, roast_level, brew_method,
    shop_name, shop_address, roaster_location, bean_origin,
    acidity, sweetness, body, overall_rating, flavor_notes, tasting_notes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertTastingParams = Tasting

func (q *Queries) InsertTasting(ctx context.Context, arg InsertTastingParams) error {
	_, err := q.db.ExecContext(ctx, insertTasting,
		arg.Position,
		arg.SessionNumber,
		arg.TastingDate,
		arg.Taster,
		arg.CoffeeName,
		arg.RoastLevel,
		arg.BrewMethod,
		arg.ShopName,
		arg.ShopAddress,
		arg.RoasterLocation,
		arg.BeanOrigin,
		arg.Acidity,
		arg.Sweetness,
		arg.Body,
		arg.OverallRating,
		arg.FlavorNotes,
		arg.TastingNotes,
	)
	return err
}

const deleteAllTastings = `DELETE FROM tastings`

func (q *Queries) DeleteAllTastings(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTastings)
	return err
}
