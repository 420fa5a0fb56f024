package store

// Schema is the fixed DDL the loader applies after every reset. Foreign
// keys are declared here and enforced through the connection DSN.
const Schema = `
CREATE TABLE users (
    user_id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL,
    country TEXT NOT NULL,
    signup_date TEXT NOT NULL,
    segment TEXT NOT NULL,
    is_active TEXT NOT NULL,
    loyalty_score INTEGER NOT NULL
);

CREATE TABLE products (
    product_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    price REAL NOT NULL,
    currency TEXT NOT NULL,
    inventory_count INTEGER NOT NULL,
    is_active TEXT NOT NULL
);

CREATE TABLE orders (
    order_id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    order_date TEXT NOT NULL,
    status TEXT NOT NULL,
    shipping_method TEXT NOT NULL,
    discount_amount REAL NOT NULL,
    total_amount REAL NOT NULL,
    currency TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users (user_id)
);

CREATE TABLE order_items (
    order_item_id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    product_id TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    unit_price REAL NOT NULL,
    line_total REAL NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders (order_id),
    FOREIGN KEY (product_id) REFERENCES products (product_id)
);

CREATE TABLE payments (
    payment_id TEXT PRIMARY KEY,
    order_id TEXT NOT NULL,
    payment_date TEXT NOT NULL,
    amount REAL NOT NULL,
    status TEXT NOT NULL,
    payment_method TEXT NOT NULL,
    transaction_reference TEXT NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders (order_id)
);

CREATE TABLE submission_meta (
    load_id TEXT PRIMARY KEY,
    loaded_at TEXT NOT NULL,
    row_counts_json TEXT NOT NULL,
    dataset_sha1 TEXT NOT NULL,
    tool_used TEXT NOT NULL
);
`

// EntityTables lists the five entity tables in FK dependency order.
var EntityTables = []string{"users", "products", "orders", "order_items", "payments"}

// Tables lists every table of the store, provenance included.
var Tables = append(append([]string{}, EntityTables...), "submission_meta")
