package app

// migration — одна версия схемы.
type migration struct {
	version int
	sql     string
}

// SQL-миграции встроены в код для упрощения деплоя.
// Порядок важен: функции баллов ссылаются на user_profiles.
var migrations = []migration{
	{1, migration001Profiles},
	{2, migration002Tasks},
	{3, migration003Completions},
	{4, migration004Rewards},
	{5, migration005PointFunctions},
	{6, migration006PointLimits},
}

var migration001Profiles = `
CREATE TABLE IF NOT EXISTS user_profiles (
    id BIGINT PRIMARY KEY,
    display_name VARCHAR(64) NOT NULL,
    points_today INTEGER NOT NULL DEFAULT 0,
    points_this_week INTEGER NOT NULL DEFAULT 0,
    points_total INTEGER NOT NULL DEFAULT 0,
    last_daily_reset VARCHAR(10) NOT NULL DEFAULT '',
    last_weekly_reset VARCHAR(8) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_user_profiles_points_total ON user_profiles(points_total DESC);
`

var migration002Tasks = `
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    title VARCHAR(100) NOT NULL,
    type VARCHAR(20) NOT NULL
        CHECK (type IN ('daily_routine', 'weekly_routine', 'urgent', 'someday')),
    points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
    weekly_count INTEGER NOT NULL DEFAULT 0,
    deadline VARCHAR(10),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_type_active ON tasks(user_id, type) WHERE is_active;
`

var migration003Completions = `
CREATE TABLE IF NOT EXISTS daily_routine_status (
    user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    target_date VARCHAR(10) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    completed_at TIMESTAMPTZ,
    PRIMARY KEY (user_id, task_id, target_date)
);

CREATE TABLE IF NOT EXISTS task_completions (
    id TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    completion_date VARCHAR(10) NOT NULL,
    completion_week VARCHAR(8) NOT NULL,
    points_earned INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, task_id, completion_date)
);
CREATE INDEX IF NOT EXISTS idx_task_completions_user_date ON task_completions(user_id, completion_date);

CREATE TABLE IF NOT EXISTS weekly_routine_completions (
    id TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    target_week VARCHAR(8) NOT NULL,
    completed_date VARCHAR(10) NOT NULL,
    points_earned INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_weekly_completions_user_week ON weekly_routine_completions(user_id, target_week);
`

var migration004Rewards = `
CREATE TABLE IF NOT EXISTS rewards (
    id TEXT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    title VARCHAR(64) NOT NULL,
    target_points INTEGER NOT NULL CHECK (target_points > 0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_rewards_user_points ON rewards(user_id, target_points);
`

var migration005PointFunctions = `
CREATE OR REPLACE FUNCTION increment_points(p_user_id BIGINT, p_points INTEGER)
RETURNS TABLE(prev_total INTEGER, new_total INTEGER)
LANGUAGE plpgsql AS $$
DECLARE
    v_prev INTEGER;
BEGIN
    SELECT points_total INTO v_prev
    FROM user_profiles
    WHERE id = p_user_id
    FOR UPDATE;

    IF NOT FOUND THEN
        RETURN;
    END IF;

    UPDATE user_profiles SET
        points_today = GREATEST(0, points_today + p_points),
        points_this_week = GREATEST(0, points_this_week + p_points),
        points_total = GREATEST(0, points_total + p_points),
        updated_at = NOW()
    WHERE id = p_user_id
    RETURNING v_prev, points_total INTO prev_total, new_total;

    RETURN NEXT;
END;
$$;

CREATE OR REPLACE FUNCTION reset_points_today(p_user_id BIGINT, p_date VARCHAR)
RETURNS INTEGER
LANGUAGE sql AS $$
    WITH updated AS (
        UPDATE user_profiles SET
            points_today = 0,
            last_daily_reset = p_date,
            updated_at = NOW()
        WHERE (p_user_id = 0 OR id = p_user_id)
          AND last_daily_reset IS DISTINCT FROM p_date
        RETURNING 1
    )
    SELECT COUNT(*)::INTEGER FROM updated;
$$;

CREATE OR REPLACE FUNCTION reset_points_week(p_user_id BIGINT, p_week VARCHAR)
RETURNS INTEGER
LANGUAGE sql AS $$
    WITH updated AS (
        UPDATE user_profiles SET
            points_this_week = 0,
            last_weekly_reset = p_week,
            updated_at = NOW()
        WHERE (p_user_id = 0 OR id = p_user_id)
          AND last_weekly_reset IS DISTINCT FROM p_week
        RETURNING 1
    )
    SELECT COUNT(*)::INTEGER FROM updated;
$$;
`

// Потолки совпадают с tasks.MaxTaskPoints и rewards.MaxRewardPoints.
// NOT VALID: уже сохранённые строки не перепроверяем, новые проверяются.
var migration006PointLimits = `
ALTER TABLE tasks DROP CONSTRAINT IF EXISTS tasks_points_max;
ALTER TABLE tasks ADD CONSTRAINT tasks_points_max CHECK (points <= 1000) NOT VALID;

ALTER TABLE rewards DROP CONSTRAINT IF EXISTS rewards_target_points_max;
ALTER TABLE rewards ADD CONSTRAINT rewards_target_points_max CHECK (target_points <= 10000) NOT VALID;
`
